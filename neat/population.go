package neat

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Population is the engine handle: a speciated set of organisms, the
// innovation registry they share, and the configuration driving evolution.
// Population owns its species, species own their organisms; back-references
// are non-owning handles.
type Population struct {
	// NextID is the organism id allocator.
	NextID int
	// Generation strictly increases, once per reproduction step.
	Generation int
	// Count is the target census restored by every reproduction step.
	Count int

	InputCount  int
	OutputCount int

	// SummedAverageFitness is Σ species.AverageFitness over all current
	// species, refreshed by CalculateFitness. Reproductive allocation sums the
	// averages of the non-stagnant species on its own and does not read it.
	SummedAverageFitness float64

	Species []*Species

	// Innovations is the population-scoped connection event registry.
	Innovations *InnovationRegistry

	opts          Options
	rng           *rand.Rand
	mut           *mutator
	nextSpeciesID int

	// best is the fittest organism ever observed, kept as the reseed source
	// when every species stagnates.
	best *Organism
}

// NewPopulation creates a population of size minimal organisms: every input
// connected to every output with uniform [-1,1] weights, innovation ids
// drawn from a fresh registry, then grouped into species. Configuration
// errors are returned before any state exists.
func NewPopulation(size, inputCount, outputCount int, opts Options) (*Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("population size %d must be positive: %w", size, ErrInvalidInput)
	}
	if inputCount <= 0 || outputCount <= 0 {
		return nil, fmt.Errorf("need at least one input and one output node: %w", ErrInvalidInput)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Population{
		NextID:        1,
		Count:         size,
		InputCount:    inputCount,
		OutputCount:   outputCount,
		Innovations:   NewInnovationRegistry(),
		opts:          opts,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		nextSpeciesID: 1,
	}
	p.mut = &mutator{opts: &p.opts, rng: p.rng, reg: p.Innovations}

	organisms := make([]*Organism, 0, size)
	for i := 0; i < size; i++ {
		organisms = append(organisms, p.seedOrganism())
	}
	p.assignSpecies(organisms)
	return p, nil
}

// seedOrganism builds one generation-0 organism with the minimal fully
// connected genome. Identical (start,end) events across seeds share ids.
func (p *Population) seedOrganism() *Organism {
	nodeCount := p.InputCount + p.OutputCount
	genes := make([]Gene, 0, p.InputCount*p.OutputCount)
	for in := 0; in < p.InputCount; in++ {
		for out := p.InputCount; out < nodeCount; out++ {
			genes = append(genes, Gene{
				ID:      p.Innovations.GetOrAssign(in, out),
				Enabled: true,
				Start:   in,
				End:     out,
				Weight:  p.rng.Float64()*2 - 1,
			})
		}
	}
	sortGenes(genes)

	o := &Organism{
		ID:          p.NextID,
		Generation:  p.Generation,
		Genes:       genes,
		NodeCount:   nodeCount,
		InputCount:  p.InputCount,
		OutputCount: p.OutputCount,
	}
	p.NextID++
	o.RebuildMatrix()
	return o
}

// Organisms returns every organism across all species in id order.
func (p *Population) Organisms() []*Organism {
	var all []*Organism
	for _, s := range p.Species {
		all = append(all, s.Organisms...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Best returns the fittest organism ever observed, or nil before the first
// fitness pass.
func (p *Population) Best() *Organism {
	return p.best
}

// Propagate runs one forward evaluation on every organism with the shared
// input vector and publishes each organism's activations. An oversized input
// aborts before any organism state changes.
func (p *Population) Propagate(inputs []float64) error {
	if len(inputs) > p.InputCount {
		return fmt.Errorf("%d inputs exceed %d input nodes: %w",
			len(inputs), p.InputCount, ErrInvalidInput)
	}

	organisms := p.Organisms()
	if p.opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(p.opts.Workers)
		for _, o := range organisms {
			g.Go(func() error {
				acts, err := o.Think(inputs, p.opts.Transfer)
				if err != nil {
					return err
				}
				o.Outputs = acts
				return nil
			})
		}
		return g.Wait()
	}

	for _, o := range organisms {
		acts, err := o.Think(inputs, p.opts.Transfer)
		if err != nil {
			return err
		}
		o.Outputs = acts
	}
	return nil
}

// CalculateFitness scores every organism with the user fitness function and
// refreshes species statistics and the summed average fitness. Organisms
// producing a non-finite weight or fitness are quarantined at fitness 0 and
// reported through the returned error; the population remains usable.
func (p *Population) CalculateFitness() error {
	organisms := p.Organisms()

	if p.opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(p.opts.Workers)
		for _, o := range organisms {
			g.Go(func() error {
				o.Fitness = p.opts.Fitness(o)
				return nil
			})
		}
		// Evaluation order is unobservable; organism id order is restored
		// by Organisms() before any later speciation pass.
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, o := range organisms {
			o.Fitness = p.opts.Fitness(o)
		}
	}

	var quarantined []int
	for _, o := range organisms {
		if !o.checkFinite() {
			o.Fitness = 0
			quarantined = append(quarantined, o.ID)
			slog.Warn("organism quarantined", "organism", o.ID, "generation", p.Generation)
		}
		if p.best == nil || o.Fitness > p.best.Fitness {
			p.best = o.Clone(o.ID, o.Generation)
			p.best.Fitness = o.Fitness
		}
	}

	p.refreshSpeciesStats()

	if len(quarantined) > 0 {
		return fmt.Errorf("non-finite results from organisms %v: %w", quarantined, ErrNumeric)
	}
	return nil
}

// refreshSpeciesStats recomputes per-species statistics and the population's
// summed average fitness.
func (p *Population) refreshSpeciesStats() {
	averages := make([]float64, 0, len(p.Species))
	for _, s := range p.Species {
		s.updateStats(p.Generation)
		averages = append(averages, s.AverageFitness)
	}
	p.SummedAverageFitness = floats.Sum(averages)
}

// Speciate reassigns every organism to a species: the first existing species
// whose reference organism lies within the similarity threshold wins, in
// organism id order; organisms matching nothing found a new species. Species
// left empty are destroyed.
func (p *Population) Speciate() {
	p.assignSpecies(p.Organisms())
}

func (p *Population) assignSpecies(organisms []*Organism) {
	for _, s := range p.Species {
		s.Organisms = s.Organisms[:0]
	}

	for _, o := range organisms {
		placed := false
		for _, s := range p.Species {
			if s.Reference == nil {
				continue
			}
			if Distance(o, s.Reference, &p.opts) < p.opts.SimilarityThreshold {
				s.Organisms = append(s.Organisms, o)
				o.Species = s
				placed = true
				break
			}
		}
		if !placed {
			s := &Species{
				ID:              p.nextSpeciesID,
				StartGeneration: p.Generation,
				Generation:      p.Generation,
				LastImproved:    p.Generation,
				Organisms:       []*Organism{o},
				Reference:       o,
				InputCount:      p.InputCount,
				OutputCount:     p.OutputCount,
			}
			p.nextSpeciesID++
			o.Species = s
			p.Species = append(p.Species, s)
		}
	}

	// Empty species are destroyed; their weak back-references die with them.
	alive := p.Species[:0]
	for _, s := range p.Species {
		if len(s.Organisms) > 0 {
			alive = append(alive, s)
		}
	}
	p.Species = alive
}

// Dispose releases all owned storage. The handle must not be used after.
func (p *Population) Dispose() {
	for _, s := range p.Species {
		for _, o := range s.Organisms {
			o.Species = nil
			o.Genes = nil
			o.Matrix = nil
			o.Outputs = nil
		}
		s.Organisms = nil
		s.Reference = nil
	}
	p.Species = nil
	p.Innovations = nil
	p.best = nil
	p.mut = nil
}
