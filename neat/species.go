package neat

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Species is a cluster of organisms within the similarity threshold of a
// reference organism snapshotted from the previous generation.
type Species struct {
	ID int

	AverageFitness float64
	// MaximumFitness never decreases while the species lives.
	MaximumFitness float64

	StartGeneration int
	// Generation is the highest birth generation among current members.
	Generation int
	// LastImproved is the generation of the last strict MaximumFitness
	// increase; a fresh species starts with LastImproved = StartGeneration.
	LastImproved int

	Organisms []*Organism

	// Reference is the organism new candidates are compared against. It is
	// a snapshot from the previous generation and non-owning.
	Reference *Organism

	InputCount  int
	OutputCount int
}

// updateStats recomputes the fitness statistics from the current members and
// advances the improvement marker on a strict maximum increase.
func (s *Species) updateStats(generation int) {
	if len(s.Organisms) == 0 {
		s.AverageFitness = 0
		return
	}

	fitnesses := make([]float64, len(s.Organisms))
	maxGen := s.Generation
	for i, o := range s.Organisms {
		fitnesses[i] = o.Fitness
		if o.Generation > maxGen {
			maxGen = o.Generation
		}
	}
	s.Generation = maxGen
	s.AverageFitness = stat.Mean(fitnesses, nil)

	best := fitnesses[0]
	for _, f := range fitnesses[1:] {
		if f > best {
			best = f
		}
	}
	if best > s.MaximumFitness {
		s.MaximumFitness = best
		s.LastImproved = generation
	}
}

// stagnant reports whether the species has gone at least window generations
// without improving its maximum fitness.
func (s *Species) stagnant(generation, window int) bool {
	return generation-s.LastImproved >= window
}

// champion returns the highest-fitness member, or nil for an empty species.
func (s *Species) champion() *Organism {
	var best *Organism
	for _, o := range s.Organisms {
		if best == nil || o.Fitness > best.Fitness {
			best = o
		}
	}
	return best
}

// sortByFitness orders members best first, organism id as the tie-break so
// culling is deterministic.
func (s *Species) sortByFitness() {
	sort.SliceStable(s.Organisms, func(i, j int) bool {
		if s.Organisms[i].Fitness != s.Organisms[j].Fitness {
			return s.Organisms[i].Fitness > s.Organisms[j].Fitness
		}
		return s.Organisms[i].ID < s.Organisms[j].ID
	})
}

// cull drops the lowest-fitness rate·len members, always retaining at least
// the champion. Returns the survivors.
func (s *Species) cull(rate float64) []*Organism {
	s.sortByFitness()
	drop := int(rate * float64(len(s.Organisms)))
	keep := len(s.Organisms) - drop
	if keep < 1 {
		keep = 1
	}
	s.Organisms = s.Organisms[:keep]
	return s.Organisms
}
