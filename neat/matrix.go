package neat

import "gonum.org/v1/gonum/mat"

// RebuildMatrix projects the genome onto a dense NodeCount×NodeCount weight
// matrix. For every enabled gene c→r the cell (r,c) holds the gene weight;
// everything else is zero. Disabled genes are skipped. The build is
// idempotent and must run after every structural or weight mutation.
func (o *Organism) RebuildMatrix() {
	o.Matrix = buildWeightMatrix(o.Genes, o.NodeCount)
}

func buildWeightMatrix(genes []Gene, nodeCount int) *mat.Dense {
	m := mat.NewDense(nodeCount, nodeCount, nil)
	for i := range genes {
		g := &genes[i]
		if !g.Enabled {
			continue
		}
		m.Set(g.End, g.Start, g.Weight)
	}
	return m
}
