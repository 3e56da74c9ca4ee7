// Package telemetry collects per-generation evolution statistics and writes
// them to structured logs and CSV files.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/drift/neat"
)

// GenerationStats holds aggregated statistics for one generation.
type GenerationStats struct {
	Generation int `csv:"generation"`

	Organisms    int `csv:"organisms"`
	SpeciesCount int `csv:"species"`
	Innovations  int `csv:"innovations"`

	BestFitness  float64 `csv:"best_fitness"`
	MeanFitness  float64 `csv:"mean_fitness"`
	FitnessP50   float64 `csv:"fitness_p50"`
	FitnessP90   float64 `csv:"fitness_p90"`
	SummedAvgFit float64 `csv:"summed_avg_fitness"`

	MeanNodes float64 `csv:"mean_nodes"`
	MaxNodes  int     `csv:"max_nodes"`
	MeanGenes float64 `csv:"mean_genes"`
	MaxGenes  int     `csv:"max_genes"`
}

// Collect samples the population's current state into one stats record.
func Collect(p *neat.Population) GenerationStats {
	organisms := p.Organisms()

	s := GenerationStats{
		Generation:   p.Generation,
		Organisms:    len(organisms),
		SpeciesCount: len(p.Species),
		SummedAvgFit: p.SummedAverageFitness,
	}
	if p.Innovations != nil {
		s.Innovations = p.Innovations.Len()
	}
	if len(organisms) == 0 {
		return s
	}

	fitnesses := make([]float64, len(organisms))
	nodes := make([]float64, len(organisms))
	genes := make([]float64, len(organisms))
	for i, o := range organisms {
		fitnesses[i] = o.Fitness
		nodes[i] = float64(o.NodeCount)
		genes[i] = float64(len(o.Genes))

		if o.Fitness > s.BestFitness {
			s.BestFitness = o.Fitness
		}
		if o.NodeCount > s.MaxNodes {
			s.MaxNodes = o.NodeCount
		}
		if len(o.Genes) > s.MaxGenes {
			s.MaxGenes = len(o.Genes)
		}
	}

	s.MeanFitness = stat.Mean(fitnesses, nil)
	s.MeanNodes = stat.Mean(nodes, nil)
	s.MeanGenes = stat.Mean(genes, nil)

	sort.Float64s(fitnesses)
	s.FitnessP50 = stat.Quantile(0.5, stat.Empirical, fitnesses, nil)
	s.FitnessP90 = stat.Quantile(0.9, stat.Empirical, fitnesses, nil)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("organisms", s.Organisms),
		slog.Int("species", s.SpeciesCount),
		slog.Int("innovations", s.Innovations),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("mean_nodes", s.MeanNodes),
		slog.Float64("mean_genes", s.MeanGenes),
	)
}

// Report logs the generation summary through slog.
func (s GenerationStats) Report() {
	slog.Info("generation", "stats", s)
}
