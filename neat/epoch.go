package neat

import (
	"fmt"
	"log/slog"
	"sort"
)

// CrossMutateAndSpeciate advances the population one generation: stagnant
// species are excluded, survivors of each remaining species are selected,
// offspring slots are allotted by relative average fitness, children are
// produced by crossover or clone-and-mutate, and the new generation is
// re-speciated against references snapshotted from the old one.
//
// CalculateFitness must have run for the current generation.
func (p *Population) CrossMutateAndSpeciate() error {
	var parents []*Species
	for _, s := range p.Species {
		if s.stagnant(p.Generation, p.opts.GenerationsBeforeStagnation) {
			slog.Debug("species stagnant",
				"species", s.ID,
				"generation", p.Generation,
				"last_improved", s.LastImproved)
			continue
		}
		parents = append(parents, s)
	}

	// Snapshot references from the outgoing generation's champions before
	// members are replaced. Stagnant species keep their older snapshot: a
	// species excluded from reproduction still collects compatible
	// newcomers or dies empty.
	for _, s := range parents {
		if c := s.champion(); c != nil {
			s.Reference = c
		}
	}

	nextGen := p.Generation + 1

	if len(parents) == 0 {
		if !p.opts.ReseedOnStagnation || p.best == nil {
			return fmt.Errorf("generation %d: %w", p.Generation, ErrAllSpeciesStagnant)
		}
		return p.reseed(nextGen)
	}

	for _, s := range parents {
		s.cull(p.opts.OrganismCullingRate)
	}

	averages := make([]float64, len(parents))
	for i, s := range parents {
		averages[i] = s.AverageFitness
	}
	allotted := allocateOffspring(averages, p.Count)

	children := make([]*Organism, 0, p.Count)
	for i, s := range parents {
		for n := 0; n < allotted[i]; n++ {
			children = append(children, p.offspring(s.Organisms, nextGen))
		}
	}

	p.Generation = nextGen
	p.assignSpecies(children)
	return nil
}

// offspring produces one child from a species' survivors: two distinct
// parents recombined when the crossover trial passes and the species has a
// pair, otherwise a mutated clone of one survivor.
func (p *Population) offspring(survivors []*Organism, generation int) *Organism {
	var child *Organism
	if len(survivors) >= 2 && p.rng.Float64() < p.opts.MatingWithCrossoverChance {
		i := p.rng.Intn(len(survivors))
		j := p.rng.Intn(len(survivors) - 1)
		if j >= i {
			j++
		}
		child = mate(survivors[i], survivors[j], p.NextID, generation, p.rng, p.opts.DisabledGeneInheritChance)
	} else {
		child = survivors[p.rng.Intn(len(survivors))].Clone(p.NextID, generation)
	}
	p.NextID++
	p.mut.mutate(child)
	return child
}

// reseed rebuilds the census from the best archived organism after total
// stagnation: every slot is a mutated clone of the archived champion.
func (p *Population) reseed(generation int) error {
	slog.Info("reseeding from archived champion",
		"organism", p.best.ID,
		"fitness", p.best.Fitness,
		"generation", generation)

	children := make([]*Organism, 0, p.Count)
	for n := 0; n < p.Count; n++ {
		child := p.best.Clone(p.NextID, generation)
		p.NextID++
		p.mut.mutate(child)
		children = append(children, child)
	}

	p.Generation = generation
	p.Species = nil
	p.assignSpecies(children)
	return nil
}

// allocateOffspring splits count offspring slots across species proportional
// to average fitness. Fractional drift is corrected by handing the spare
// slots to the largest remainders, so the result always sums to count. A
// zero fitness sum degrades to a uniform split, and no species is starved to
// zero while slots can be taken from a larger allocation.
func allocateOffspring(averages []float64, count int) []int {
	n := len(averages)
	alloc := make([]int, n)
	if n == 0 || count <= 0 {
		return alloc
	}

	summed := 0.0
	for _, a := range averages {
		summed += a
	}

	fractions := make([]float64, n)
	assigned := 0
	for i := range averages {
		share := float64(count) / float64(n)
		if summed > 0 {
			share = float64(count) * averages[i] / summed
		}
		alloc[i] = int(share)
		fractions[i] = share - float64(alloc[i])
		assigned += alloc[i]
	}

	// Largest fractional remainders take the leftover slots; ties fall to
	// the earlier species so the correction is deterministic.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return fractions[order[a]] > fractions[order[b]] })
	for k := 0; assigned < count; k = (k + 1) % n {
		alloc[order[k]]++
		assigned++
	}

	// Keep every species alive while a donor has slots to spare.
	for i := range alloc {
		if alloc[i] > 0 {
			continue
		}
		donor := -1
		for j := range alloc {
			if alloc[j] > 1 && (donor < 0 || alloc[j] > alloc[donor]) {
				donor = j
			}
		}
		if donor < 0 {
			break
		}
		alloc[donor]--
		alloc[i]++
	}
	return alloc
}
