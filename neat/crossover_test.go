package neat

import (
	"math/rand"
	"testing"
)

func TestCrossoverIdenticalParents(t *testing.T) {
	genes := []Gene{
		{ID: 1, Enabled: true, Start: 0, End: 2, Weight: 0.5},
		{ID: 2, Enabled: false, Start: 1, End: 2, Weight: -0.5},
		{ID: 4, Enabled: true, Start: 1, End: 3, Weight: 1.5},
	}
	build := func(id int) *Organism {
		gs := make([]Gene, len(genes))
		copy(gs, genes)
		return newTestOrganism(id, 2, 1, 4, gs)
	}
	a, b := build(1), build(2)
	a.Fitness, b.Fitness = 1, 1

	rng := rand.New(rand.NewSource(42))
	child := crossover(a, b, rng, 0.75)

	if len(child) != len(genes) {
		t.Fatalf("child has %d genes, want %d", len(child), len(genes))
	}
	for i := range genes {
		if child[i].ID != genes[i].ID || child[i].Weight != genes[i].Weight {
			t.Errorf("gene %d = %+v, want %+v", i, child[i], genes[i])
		}
		// Agreement between the parents makes enablement deterministic.
		if child[i].Enabled != genes[i].Enabled {
			t.Errorf("gene %d enablement = %v, want %v", i, child[i].Enabled, genes[i].Enabled)
		}
	}
}

func TestCrossoverTakesDisjointFromFitterParent(t *testing.T) {
	a := newTestOrganism(1, 2, 1, 4, []Gene{
		{ID: 1, Enabled: true, Start: 0, End: 2, Weight: 0.1},
		{ID: 2, Enabled: true, Start: 1, End: 2, Weight: 0.2},
		{ID: 5, Enabled: true, Start: 1, End: 3, Weight: 0.5},
	})
	b := newTestOrganism(2, 2, 1, 4, []Gene{
		{ID: 1, Enabled: true, Start: 0, End: 2, Weight: 0.9},
		{ID: 3, Enabled: true, Start: 1, End: 3, Weight: 0.3},
		{ID: 4, Enabled: true, Start: 3, End: 2, Weight: 0.4},
		{ID: 9, Enabled: true, Start: 0, End: 3, Weight: 0.9},
	})
	a.Fitness, b.Fitness = 2, 1

	rng := rand.New(rand.NewSource(42))
	child := crossover(a, b, rng, 0.75)

	wantIDs := []int{1, 2, 5}
	if len(child) != len(wantIDs) {
		t.Fatalf("child ids %v, want %v", geneIDs(child), wantIDs)
	}
	for i, id := range wantIDs {
		if child[i].ID != id {
			t.Errorf("child ids %v, want %v", geneIDs(child), wantIDs)
			break
		}
	}
}

func TestMateUsesLargerNodeCount(t *testing.T) {
	a := newTestOrganism(1, 2, 1, 3, []Gene{
		{ID: 1, Enabled: true, Start: 0, End: 2, Weight: 0.1},
	})
	b := newTestOrganism(2, 2, 1, 5, []Gene{
		{ID: 1, Enabled: true, Start: 0, End: 2, Weight: 0.9},
		{ID: 2, Enabled: true, Start: 0, End: 4, Weight: 0.4},
	})
	a.Fitness, b.Fitness = 1, 3

	rng := rand.New(rand.NewSource(42))
	child := mate(a, b, 10, 2, rng, 0.75)

	if child.NodeCount != 5 {
		t.Errorf("child node count = %d, want 5", child.NodeCount)
	}
	if child.ID != 10 || child.Generation != 2 {
		t.Errorf("child identity = (%d, gen %d), want (10, gen 2)", child.ID, child.Generation)
	}
	if child.Matrix == nil {
		t.Fatal("child matrix not built")
	}
	if err := child.Validate(); err != nil {
		t.Errorf("child invalid: %v", err)
	}
}

func geneIDs(genes []Gene) []int {
	ids := make([]int, len(genes))
	for i, g := range genes {
		ids[i] = g.ID
	}
	return ids
}
