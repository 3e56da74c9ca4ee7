package neat

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Think runs one forward evaluation of the organism's network and returns
// the full activation vector, one value per node. Inputs shorter than the
// input node count are zero-padded; longer inputs are rejected. The genome
// is not touched; the matrix is only built when it is missing.
//
// Rows are evaluated in ascending node index order with the input rows
// pinned to the supplied values. Because split-off hidden nodes sit above
// the output block in index space, the sweep is repeated once per potential
// hidden layer so their signals reach the outputs; with no hidden nodes a
// single sweep remains exact.
func (o *Organism) Think(inputs []float64, transfer TransferFunc) ([]float64, error) {
	if len(inputs) > o.InputCount {
		return nil, fmt.Errorf("%d inputs exceed %d input nodes: %w",
			len(inputs), o.InputCount, ErrInvalidInput)
	}
	if o.Matrix == nil {
		o.RebuildMatrix()
	}

	activations := make([]float64, o.NodeCount)
	copy(activations, inputs)

	passes := o.HiddenCount() + 1
	for p := 0; p < passes; p++ {
		for r := o.InputCount; r < o.NodeCount; r++ {
			sum := floats.Dot(o.Matrix.RawRowView(r), activations)
			activations[r] = transfer(sum)
		}
	}
	return activations, nil
}
