package neat

import (
	"math/rand"
	"testing"
)

func newTestMutator(seed int64, reg *InnovationRegistry) *mutator {
	opts := DefaultOptions()
	opts.Fitness = func(*Organism) float64 { return 0 }
	return &mutator{
		opts: &opts,
		rng:  rand.New(rand.NewSource(seed)),
		reg:  reg,
	}
}

func TestAddNodeSplitsGene(t *testing.T) {
	reg := NewInnovationRegistry()
	m := newTestMutator(42, reg)

	o := newTestOrganism(1, 2, 1, 3, []Gene{
		{ID: reg.GetOrAssign(0, 2), Enabled: true, Start: 0, End: 2, Weight: 0.5},
	})

	if !m.addNode(o) {
		t.Fatal("addNode found no enabled gene to split")
	}
	o.RebuildMatrix()

	if o.NodeCount != 4 {
		t.Fatalf("node count = %d, want 4", o.NodeCount)
	}
	if o.Genes[0].Enabled {
		t.Error("split gene is still enabled")
	}
	if got := o.Matrix.At(2, 0); got != 0 {
		t.Errorf("matrix[2][0] = %v, want 0 (split gene disabled)", got)
	}
	if got := o.Matrix.At(3, 0); got != 1.0 {
		t.Errorf("matrix[3][0] = %v, want 1 (input side of the split)", got)
	}
	if got := o.Matrix.At(2, 3); got != 0.5 {
		t.Errorf("matrix[2][3] = %v, want 0.5 (inherited weight)", got)
	}

	if err := o.Validate(); err != nil {
		t.Errorf("organism invalid after add-node: %v", err)
	}
}

// addOnlyPossibleConnection drives addConnection until it succeeds. The
// organisms in these tests leave exactly one legal unconnected pair, so a
// successful return means that pair was added.
func addOnlyPossibleConnection(t *testing.T, m *mutator, o *Organism) {
	t.Helper()
	for i := 0; i < 50; i++ {
		if m.addConnection(o) {
			return
		}
	}
	t.Fatal("addConnection never found the open pair")
}

func TestAddConnectionSharesInnovationAcrossOrganisms(t *testing.T) {
	reg := NewInnovationRegistry()

	// Both organisms have every legal pair connected except (0,3).
	build := func(id int) *Organism {
		return newTestOrganism(id, 2, 1, 4, []Gene{
			{ID: reg.GetOrAssign(0, 2), Enabled: true, Start: 0, End: 2, Weight: 1},
			{ID: reg.GetOrAssign(1, 2), Enabled: true, Start: 1, End: 2, Weight: 1},
			{ID: reg.GetOrAssign(1, 3), Enabled: true, Start: 1, End: 3, Weight: 1},
			{ID: reg.GetOrAssign(3, 2), Enabled: true, Start: 3, End: 2, Weight: 1},
		})
	}
	a := build(1)
	b := build(2)

	addOnlyPossibleConnection(t, newTestMutator(7, reg), a)
	addOnlyPossibleConnection(t, newTestMutator(99, reg), b)

	ia := findGene(a.Genes, 0, 3)
	ib := findGene(b.Genes, 0, 3)
	if ia < 0 || ib < 0 {
		t.Fatalf("edge (0,3) missing: indices (%d, %d)", ia, ib)
	}
	if a.Genes[ia].ID != b.Genes[ib].ID {
		t.Errorf("independently evolved edge (0,3) got ids %d and %d, want equal",
			a.Genes[ia].ID, b.Genes[ib].ID)
	}
}

func TestAddConnectionReenablesDisabledGene(t *testing.T) {
	reg := NewInnovationRegistry()
	m := newTestMutator(3, reg)

	disabledID := reg.GetOrAssign(0, 3)
	o := newTestOrganism(1, 2, 1, 4, []Gene{
		{ID: reg.GetOrAssign(0, 2), Enabled: true, Start: 0, End: 2, Weight: 1},
		{ID: reg.GetOrAssign(1, 2), Enabled: true, Start: 1, End: 2, Weight: 1},
		{ID: reg.GetOrAssign(1, 3), Enabled: true, Start: 1, End: 3, Weight: 1},
		{ID: reg.GetOrAssign(3, 2), Enabled: true, Start: 3, End: 2, Weight: 1},
		{ID: disabledID, Enabled: false, Start: 0, End: 3, Weight: 0.25},
	})

	addOnlyPossibleConnection(t, m, o)

	i := findGene(o.Genes, 0, 3)
	if !o.Genes[i].Enabled {
		t.Fatal("disabled gene was not re-enabled")
	}
	if o.Genes[i].ID != disabledID {
		t.Errorf("re-enabled gene id = %d, want original %d", o.Genes[i].ID, disabledID)
	}
	if o.Genes[i].Weight != 0.25 {
		t.Errorf("re-enabled gene weight = %v, want 0.25 preserved", o.Genes[i].Weight)
	}
}

func TestMutatePreservesInvariants(t *testing.T) {
	reg := NewInnovationRegistry()
	m := newTestMutator(42, reg)
	m.opts.AddNodeMutationChance = 0.3
	m.opts.AddConnectionMutationChance = 0.5

	o := newTestOrganism(1, 3, 2, 5, []Gene{
		{ID: reg.GetOrAssign(0, 3), Enabled: true, Start: 0, End: 3, Weight: 0.5},
		{ID: reg.GetOrAssign(1, 3), Enabled: true, Start: 1, End: 3, Weight: -0.5},
		{ID: reg.GetOrAssign(2, 4), Enabled: true, Start: 2, End: 4, Weight: 0.1},
	})

	for round := 0; round < 200; round++ {
		m.mutate(o)
		if err := o.Validate(); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
	}

	if o.NodeCount == 5 && len(o.Genes) == 3 {
		t.Error("200 mutation rounds changed nothing; trial gates look broken")
	}
}

func TestMutateWeightsStayBounded(t *testing.T) {
	reg := NewInnovationRegistry()
	m := newTestMutator(11, reg)
	m.opts.WeightMutationChance = 1
	m.opts.WeightShiftMutationChance = 1

	o := newTestOrganism(1, 2, 1, 3, []Gene{
		{ID: reg.GetOrAssign(0, 2), Enabled: true, Start: 0, End: 2, Weight: 7.9},
		{ID: reg.GetOrAssign(1, 2), Enabled: true, Start: 1, End: 2, Weight: -7.9},
	})

	for round := 0; round < 100; round++ {
		m.mutateWeights(o)
		m.shiftWeights(o)
		for _, g := range o.Genes {
			if g.Weight > m.opts.MaxWeight || g.Weight < -m.opts.MaxWeight {
				t.Fatalf("round %d: weight %v escaped [-%v, %v]",
					round, g.Weight, m.opts.MaxWeight, m.opts.MaxWeight)
			}
		}
	}
}
