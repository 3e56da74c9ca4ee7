package neat

import "math"

// Distance computes the compatibility distance between two genomes:
//
//	δ = (E·excess + D·disjoint)/N + M·(Σ|wA−wB| / matching)
//
// Both gene lists are walked with two cursors aligned on innovation id.
// While ids match, the absolute weight difference accumulates; the smaller
// id at a mismatch counts as disjoint; whatever remains after one cursor is
// exhausted counts as excess. Symmetric, and zero for identical genomes.
func Distance(a, b *Organism, opts *Options) float64 {
	var (
		matching     int
		disjoint     int
		excess       int
		matchingDiff float64
	)

	i, j := 0, 0
	for i < len(a.Genes) && j < len(b.Genes) {
		ga, gb := &a.Genes[i], &b.Genes[j]
		switch {
		case ga.ID == gb.ID:
			matchingDiff += math.Abs(ga.Weight - gb.Weight)
			matching++
			i++
			j++
		case ga.ID < gb.ID:
			disjoint++
			i++
		default:
			disjoint++
			j++
		}
	}
	excess = (len(a.Genes) - i) + (len(b.Genes) - j)

	// The structural terms are normalized by the larger genome's length;
	// two empty genomes divide by one.
	n := float64(max(len(a.Genes), len(b.Genes), 1))

	avgDiff := matchingDiff / float64(max(matching, 1))

	return (opts.ExcessGeneImportance*float64(excess)+
		opts.DisjointGeneImportance*float64(disjoint))/n +
		opts.MatchingGeneImportance*avgDiff
}
