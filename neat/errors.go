package neat

import "errors"

// Error kinds surfaced by the engine. Callers match with errors.Is.
var (
	// ErrInvalidInput reports a caller mistake: an input vector longer than
	// the input node count, inconsistent gene/node data, or an out-of-range
	// configuration value. Population state is untouched when returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariant reports an internal consistency failure (duplicate
	// innovation id, matrix dimension mismatch). It signals a bug; the
	// generation halts immediately.
	ErrInvariant = errors.New("invariant violation")

	// ErrAllSpeciesStagnant reports that every species exceeded the
	// stagnation window and reseeding is disabled.
	ErrAllSpeciesStagnant = errors.New("all species stagnant")

	// ErrNumeric reports a non-finite weight or fitness. The offending
	// organism is quarantined at fitness 0 before reproduction.
	ErrNumeric = errors.New("numeric failure")
)
