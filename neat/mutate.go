package neat

import "math/rand"

// maxConnectionAttempts bounds the random search for an unconnected pair.
const maxConnectionAttempts = 20

// mutator applies the structural and weight mutation operators to organisms. All structural
// additions route through the population's innovation registry so identical
// events in different organisms share an id.
type mutator struct {
	opts *Options
	rng  *rand.Rand
	reg  *InnovationRegistry
}

// mutate runs the per-organism and per-gene mutation trials and rebuilds the
// weight matrix when anything changed.
func (m *mutator) mutate(o *Organism) {
	changed := false

	if m.rng.Float64() < m.opts.AddConnectionMutationChance {
		if m.addConnection(o) {
			changed = true
		}
	}
	if m.rng.Float64() < m.opts.AddNodeMutationChance {
		if m.addNode(o) {
			changed = true
		}
	}
	if m.mutateWeights(o) {
		changed = true
	}
	if m.rng.Float64() < m.opts.WeightShiftMutationChance {
		if m.shiftWeights(o) {
			changed = true
		}
	}

	if changed {
		o.RebuildMatrix()
	}
}

// addConnection tries to connect two previously unconnected nodes. The start
// may not be an output, the end may not be an input, and start must precede
// end in index space so the new edge runs forward. Hitting an existing
// disabled gene re-enables it under its original innovation id; hitting an
// enabled one re-draws. Returns false when no slot was found.
func (m *mutator) addConnection(o *Organism) bool {
	starts := make([]int, 0, o.InputCount+o.HiddenCount())
	for i := 0; i < o.InputCount; i++ {
		starts = append(starts, i)
	}
	for i := o.InputCount + o.OutputCount; i < o.NodeCount; i++ {
		starts = append(starts, i)
	}
	if len(starts) == 0 {
		return false
	}

	for attempt := 0; attempt < maxConnectionAttempts; attempt++ {
		start := starts[m.rng.Intn(len(starts))]
		// Ends span outputs and hidden nodes.
		end := o.InputCount + m.rng.Intn(o.NodeCount-o.InputCount)
		if start >= end {
			continue
		}

		if i := findGene(o.Genes, start, end); i >= 0 {
			if !o.Genes[i].Enabled {
				o.Genes[i].Enabled = true
				return true
			}
			continue
		}

		o.Genes = append(o.Genes, Gene{
			ID:      m.reg.GetOrAssign(start, end),
			Enabled: true,
			Start:   start,
			End:     end,
			Weight:  m.initialWeight(),
		})
		sortGenes(o.Genes)
		return true
	}
	return false
}

// addNode splits a random enabled gene a→b: the gene is disabled, a hidden
// node h is appended at index NodeCount, and two genes a→h (weight 1) and
// h→b (the old weight) take its place. The identity mapping is preserved at
// the moment of insertion.
func (m *mutator) addNode(o *Organism) bool {
	enabled := enabledGenes(o.Genes)
	if len(enabled) == 0 {
		return false
	}
	i := enabled[m.rng.Intn(len(enabled))]
	split := &o.Genes[i]
	split.Enabled = false

	h := o.NodeCount
	o.NodeCount++

	inGene := Gene{
		ID:      m.reg.GetOrAssign(split.Start, h),
		Enabled: true,
		Start:   split.Start,
		End:     h,
		Weight:  1,
	}
	outGene := Gene{
		ID:      m.reg.GetOrAssign(h, split.End),
		Enabled: true,
		Start:   h,
		End:     split.End,
		Weight:  split.Weight,
	}
	o.Genes = append(o.Genes, inGene, outGene)
	sortGenes(o.Genes)
	return true
}

// mutateWeights runs the per-gene weight trials: a bounded perturbation and,
// independently, a full resample. The resample is drawn second so it wins
// when both fire in the same pass.
func (m *mutator) mutateWeights(o *Organism) bool {
	changed := false
	for i := range o.Genes {
		g := &o.Genes[i]
		if m.rng.Float64() < m.opts.WeightMutationChance {
			g.Weight = m.clamp(g.Weight + (m.rng.Float64()*2-1)*m.opts.WeightMutationPower)
			changed = true
		}
		if m.rng.Float64() < m.opts.NewWeightMutationChance {
			g.Weight = m.initialWeight()
			changed = true
		}
	}
	return changed
}

// shiftWeights moves every weight in the organism by one shared delta.
func (m *mutator) shiftWeights(o *Organism) bool {
	if len(o.Genes) == 0 {
		return false
	}
	delta := (m.rng.Float64()*2 - 1) * m.opts.WeightMutationPower
	for i := range o.Genes {
		o.Genes[i].Weight = m.clamp(o.Genes[i].Weight + delta)
	}
	return true
}

// initialWeight samples from the initial uniform distribution [-1, 1].
func (m *mutator) initialWeight() float64 {
	return m.rng.Float64()*2 - 1
}

func (m *mutator) clamp(w float64) float64 {
	if w > m.opts.MaxWeight {
		return m.opts.MaxWeight
	}
	if w < -m.opts.MaxWeight {
		return -m.opts.MaxWeight
	}
	return w
}
