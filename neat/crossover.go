package neat

import "math/rand"

// crossover recombines two parents into a child gene list. Genes are aligned
// by innovation id: matching genes inherit a randomly chosen parent's
// version, disjoint and excess genes come from the fitter parent only. When
// fitnesses tie, the donating parent is chosen uniformly. A matching gene
// disabled in exactly one parent stays disabled in the child with
// disabledInherit probability; one disabled in both stays disabled.
func crossover(a, b *Organism, rng *rand.Rand, disabledInherit float64) []Gene {
	fitter, other := a, b
	switch {
	case b.Fitness > a.Fitness:
		fitter, other = b, a
	case a.Fitness == b.Fitness && rng.Float64() < 0.5:
		fitter, other = b, a
	}

	child := make([]Gene, 0, len(fitter.Genes))
	i, j := 0, 0
	for i < len(fitter.Genes) && j < len(other.Genes) {
		g1, g2 := fitter.Genes[i], other.Genes[j]
		switch {
		case g1.ID == g2.ID:
			g := g1
			if rng.Float64() < 0.5 {
				g = g2
			}
			switch {
			case !g1.Enabled && !g2.Enabled:
				g.Enabled = false
			case !g1.Enabled || !g2.Enabled:
				g.Enabled = rng.Float64() >= disabledInherit
			}
			child = append(child, g)
			i++
			j++
		case g1.ID < g2.ID:
			// Disjoint in the fitter parent: inherited.
			child = append(child, g1)
			i++
		default:
			// Disjoint in the weaker parent: skipped.
			j++
		}
	}
	// Excess genes are inherited only from the fitter parent.
	child = append(child, fitter.Genes[i:]...)

	return child
}

// mate produces a full offspring organism from two parents. The child's node
// count is the larger of the parents'; index semantics carry over because
// innovations are population-scoped.
func mate(a, b *Organism, id, generation int, rng *rand.Rand, disabledInherit float64) *Organism {
	child := &Organism{
		ID:          id,
		Generation:  generation,
		Genes:       crossover(a, b, rng, disabledInherit),
		NodeCount:   max(a.NodeCount, b.NodeCount),
		InputCount:  a.InputCount,
		OutputCount: a.OutputCount,
	}
	child.RebuildMatrix()
	return child
}
