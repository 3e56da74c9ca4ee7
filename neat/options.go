package neat

import (
	"fmt"
	"math"
)

// TransferFunc is the node transfer function applied to every row sum during
// propagation. It must be pure.
type TransferFunc func(float64) float64

// FitnessFunc scores one organism. It must return a non-negative value and
// must be pure; when Workers > 1 it is called from multiple goroutines.
type FitnessFunc func(*Organism) float64

// Options configures a population. Probabilities are in [0,1]. Transfer and
// Fitness are supplied in code and are required.
type Options struct {
	// AddNodeMutationChance is checked once per organism per generation.
	AddNodeMutationChance float64 `yaml:"add_node_mutation_chance"`
	// AddConnectionMutationChance is checked once per organism per generation.
	AddConnectionMutationChance float64 `yaml:"add_connection_mutation_chance"`
	// WeightMutationChance is checked per gene; adds a bounded perturbation.
	WeightMutationChance float64 `yaml:"weight_mutation_chance"`
	// NewWeightMutationChance is checked per gene; resamples the weight from
	// the initial distribution. Drawn independently of WeightMutationChance
	// and applied after it, so a replace supersedes a perturbation.
	NewWeightMutationChance float64 `yaml:"new_weight_mutation_chance"`
	// WeightShiftMutationChance is checked once per organism; shifts every
	// gene weight by one shared bounded delta.
	WeightShiftMutationChance float64 `yaml:"weight_shift_mutation_chance"`

	// WeightMutationPower scales perturbation and shift deltas.
	WeightMutationPower float64 `yaml:"weight_mutation_power"`
	// MaxWeight clamps mutated weights to [-MaxWeight, MaxWeight].
	MaxWeight float64 `yaml:"max_weight"`

	// Similarity term importances (E, D, M in the distance formula).
	ExcessGeneImportance   float64 `yaml:"excess_gene_importance"`
	DisjointGeneImportance float64 `yaml:"disjoint_gene_importance"`
	MatchingGeneImportance float64 `yaml:"matching_gene_importance"`
	// SimilarityThreshold is the distance below which an organism joins a
	// species. Strictly positive.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// OrganismCullingRate is the fraction of each species dropped before
	// reproduction. The champion is always retained.
	OrganismCullingRate float64 `yaml:"organism_culling_rate"`
	// GenerationsBeforeStagnation is how long a species may go without
	// improving its maximum fitness before it is excluded from reproduction.
	GenerationsBeforeStagnation int `yaml:"generations_before_stagnation"`
	// MatingWithCrossoverChance is the fraction of offspring produced by
	// crossover rather than clone-and-mutate.
	MatingWithCrossoverChance float64 `yaml:"mating_with_crossover_chance"`
	// DisabledGeneInheritChance is the chance a matching gene stays disabled
	// in the child when exactly one parent carries it disabled. A gene
	// disabled in both parents always stays disabled.
	DisabledGeneInheritChance float64 `yaml:"disabled_gene_inherit_chance"`

	// ReseedOnStagnation restarts from the best archived organism when every
	// species stagnates; when false the condition is surfaced as an error.
	ReseedOnStagnation bool `yaml:"reseed_on_stagnation"`

	// Workers bounds parallel propagation and fitness evaluation. Values
	// below 2 keep the generation step fully serial.
	Workers int `yaml:"workers"`

	// Seed initializes the population's single PRNG stream.
	Seed int64 `yaml:"seed"`

	Transfer TransferFunc `yaml:"-"`
	Fitness  FitnessFunc  `yaml:"-"`
}

// DefaultOptions returns the engine defaults. Transfer defaults to tanh;
// Fitness has no default and must be set before NewPopulation.
func DefaultOptions() Options {
	return Options{
		AddNodeMutationChance:       0.03,
		AddConnectionMutationChance: 0.1,
		WeightMutationChance:        0.8,
		NewWeightMutationChance:     0.1,
		WeightShiftMutationChance:   0.05,
		WeightMutationPower:         0.5,
		MaxWeight:                   8.0,
		ExcessGeneImportance:        1.0,
		DisjointGeneImportance:      1.0,
		MatchingGeneImportance:      0.4,
		SimilarityThreshold:         1.2,
		OrganismCullingRate:         0.5,
		GenerationsBeforeStagnation: 15,
		MatingWithCrossoverChance:   0.75,
		DisabledGeneInheritChance:   0.75,
		ReseedOnStagnation:          true,
		Workers:                     1,
		Seed:                        42,
		Transfer:                    math.Tanh,
	}
}

// Validate reports the first out-of-range option. Configuration errors are
// returned before any population state exists.
func (o *Options) Validate() error {
	chances := []struct {
		name  string
		value float64
	}{
		{"add_node_mutation_chance", o.AddNodeMutationChance},
		{"add_connection_mutation_chance", o.AddConnectionMutationChance},
		{"weight_mutation_chance", o.WeightMutationChance},
		{"new_weight_mutation_chance", o.NewWeightMutationChance},
		{"weight_shift_mutation_chance", o.WeightShiftMutationChance},
		{"organism_culling_rate", o.OrganismCullingRate},
		{"mating_with_crossover_chance", o.MatingWithCrossoverChance},
		{"disabled_gene_inherit_chance", o.DisabledGeneInheritChance},
	}
	for _, c := range chances {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s %v outside [0,1]: %w", c.name, c.value, ErrInvalidInput)
		}
	}
	if o.SimilarityThreshold <= 0 {
		return fmt.Errorf("similarity_threshold must be positive: %w", ErrInvalidInput)
	}
	if o.GenerationsBeforeStagnation < 0 {
		return fmt.Errorf("generations_before_stagnation must be non-negative: %w", ErrInvalidInput)
	}
	if o.WeightMutationPower <= 0 {
		return fmt.Errorf("weight_mutation_power must be positive: %w", ErrInvalidInput)
	}
	if o.MaxWeight <= 0 {
		return fmt.Errorf("max_weight must be positive: %w", ErrInvalidInput)
	}
	if o.Transfer == nil {
		return fmt.Errorf("transfer function is required: %w", ErrInvalidInput)
	}
	if o.Fitness == nil {
		return fmt.Errorf("fitness function is required: %w", ErrInvalidInput)
	}
	return nil
}
