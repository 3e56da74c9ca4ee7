package neat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Organism is one individual: a genome, the weight matrix derived from it,
// the outputs of the last propagation, and bookkeeping for speciation.
// Node indices 0..InputCount-1 are inputs, the next OutputCount are outputs,
// the remainder hidden.
type Organism struct {
	ID         int
	Generation int

	// Species is a non-owning back-reference to the organism's current
	// species; it answers lookups and never extends lifetime.
	Species *Species

	// Genes is ordered by innovation id ascending.
	Genes []Gene

	NodeCount   int
	InputCount  int
	OutputCount int

	// Matrix is NodeCount×NodeCount; Matrix[r][c] holds the weight of the
	// enabled gene c→r, or 0. Rebuilt after every structural or weight
	// mutation.
	Matrix *mat.Dense

	// Outputs holds one activation per node after the last propagation.
	// Callers read the network outputs at [InputCount, InputCount+OutputCount).
	Outputs []float64

	Fitness float64
}

// HiddenCount returns the number of hidden nodes.
func (o *Organism) HiddenCount() int {
	return o.NodeCount - o.InputCount - o.OutputCount
}

// ReadOutputs returns the output-node slice of the last propagation, or nil
// if the organism has not propagated yet.
func (o *Organism) ReadOutputs() []float64 {
	if len(o.Outputs) < o.InputCount+o.OutputCount {
		return nil
	}
	return o.Outputs[o.InputCount : o.InputCount+o.OutputCount]
}

// Clone returns a deep copy with a new id, born in the given generation.
// The copy carries no species assignment and no propagation results.
func (o *Organism) Clone(id, generation int) *Organism {
	genes := make([]Gene, len(o.Genes))
	copy(genes, o.Genes)

	child := &Organism{
		ID:          id,
		Generation:  generation,
		Genes:       genes,
		NodeCount:   o.NodeCount,
		InputCount:  o.InputCount,
		OutputCount: o.OutputCount,
	}
	child.RebuildMatrix()
	return child
}

// Validate checks the organism's structural invariants: node accounting,
// gene endpoint ranges, unique innovation ids, no duplicate enabled
// connection pairs, and matrix dimensions. Failures are internal bugs.
func (o *Organism) Validate() error {
	if o.NodeCount < o.InputCount+o.OutputCount {
		return fmt.Errorf("organism %d: node count %d below %d inputs + %d outputs: %w",
			o.ID, o.NodeCount, o.InputCount, o.OutputCount, ErrInvariant)
	}

	seenID := make(map[int]bool, len(o.Genes))
	seenPair := make(map[int64]bool, len(o.Genes))
	lastID := 0
	for _, g := range o.Genes {
		if seenID[g.ID] {
			return fmt.Errorf("organism %d: duplicate innovation id %d: %w", o.ID, g.ID, ErrInvariant)
		}
		seenID[g.ID] = true
		if g.ID < lastID {
			return fmt.Errorf("organism %d: genes not sorted by innovation id: %w", o.ID, ErrInvariant)
		}
		lastID = g.ID

		if g.Start < 0 || g.Start >= o.NodeCount || g.End < 0 || g.End >= o.NodeCount {
			return fmt.Errorf("organism %d: gene %d endpoints (%d,%d) outside %d nodes: %w",
				o.ID, g.ID, g.Start, g.End, o.NodeCount, ErrInvariant)
		}
		if g.Start >= o.InputCount && g.Start < o.InputCount+o.OutputCount {
			return fmt.Errorf("organism %d: gene %d starts at output node %d: %w", o.ID, g.ID, g.Start, ErrInvariant)
		}
		if g.End < o.InputCount {
			return fmt.Errorf("organism %d: gene %d ends at input node %d: %w", o.ID, g.ID, g.End, ErrInvariant)
		}

		if g.Enabled {
			key := connectionKey(g.Start, g.End)
			if seenPair[key] {
				return fmt.Errorf("organism %d: duplicate enabled connection %d→%d: %w",
					o.ID, g.Start, g.End, ErrInvariant)
			}
			seenPair[key] = true
		}
	}

	if o.Matrix != nil {
		rows, cols := o.Matrix.Dims()
		if rows != o.NodeCount || cols != o.NodeCount {
			return fmt.Errorf("organism %d: matrix %dx%d does not match %d nodes: %w",
				o.ID, rows, cols, o.NodeCount, ErrInvariant)
		}
	}
	return nil
}

// checkFinite reports whether every weight and the fitness are finite.
func (o *Organism) checkFinite() bool {
	if math.IsNaN(o.Fitness) || math.IsInf(o.Fitness, 0) {
		return false
	}
	for i := range o.Genes {
		w := o.Genes[i].Weight
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return true
}
