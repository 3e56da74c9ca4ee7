package telemetry

import (
	"testing"

	"github.com/pthm-cable/drift/neat"
)

func testPopulation(t *testing.T, size int) *neat.Population {
	t.Helper()
	opts := neat.DefaultOptions()
	opts.Fitness = func(o *neat.Organism) float64 { return float64(o.ID) }

	p, err := neat.NewPopulation(size, 2, 1, opts)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}
	return p
}

func TestCollect(t *testing.T) {
	p := testPopulation(t, 10)
	defer p.Dispose()

	if err := p.CalculateFitness(); err != nil {
		t.Fatalf("CalculateFitness failed: %v", err)
	}

	stats := Collect(p)

	if stats.Organisms != 10 {
		t.Errorf("organisms = %d, want 10", stats.Organisms)
	}
	if stats.SpeciesCount != len(p.Species) {
		t.Errorf("species = %d, want %d", stats.SpeciesCount, len(p.Species))
	}
	if stats.BestFitness != 10 {
		t.Errorf("best fitness = %v, want 10", stats.BestFitness)
	}
	if stats.MeanFitness != 5.5 {
		t.Errorf("mean fitness = %v, want 5.5", stats.MeanFitness)
	}
	if stats.MeanNodes != 3 {
		t.Errorf("mean nodes = %v, want 3", stats.MeanNodes)
	}
	if stats.MaxGenes != 2 {
		t.Errorf("max genes = %d, want 2", stats.MaxGenes)
	}
	if stats.Innovations != 2 {
		t.Errorf("innovations = %d, want 2", stats.Innovations)
	}
}

func TestCollectBeforeFitness(t *testing.T) {
	p := testPopulation(t, 5)
	defer p.Dispose()

	stats := Collect(p)

	if stats.Organisms != 5 {
		t.Errorf("organisms = %d, want 5", stats.Organisms)
	}
	if stats.BestFitness != 0 {
		t.Errorf("best fitness = %v, want 0 before evaluation", stats.BestFitness)
	}
}
