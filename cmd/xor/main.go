// Command xor evolves a network that computes XOR, the classic benchmark
// for topology-evolving neuroevolution: it is unsolvable without at least
// one evolved hidden node.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/schollz/progressbar/v3"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/neat"
	"github.com/pthm-cable/drift/telemetry"
)

// xorCases lists the four probe points as input pair plus expected output.
var xorCases = [4][3]float64{
	{0, 0, 0},
	{0, 1, 1},
	{1, 0, 1},
	{1, 1, 0},
}

// xorFitness scores an organism as 4 minus the summed squared error over the
// four XOR points, floored at zero. A perfect network scores 4.
func xorFitness(transfer neat.TransferFunc) neat.FitnessFunc {
	return func(o *neat.Organism) float64 {
		sum := 0.0
		for _, c := range xorCases {
			activations, err := o.Think(c[:2], transfer)
			if err != nil {
				return 0
			}
			out := activations[o.InputCount]
			d := out - c[2]
			sum += d * d
		}
		if sum > 4 {
			return 0
		}
		return 4 - sum
	}
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = defaults)")
	generations := flag.Int("generations", 0, "Generation budget (0 = from config)")
	seed := flag.Int64("seed", 0, "PRNG seed (0 = from config)")
	popSize := flag.Int("pop", 0, "Population size (0 = from config)")
	outputDir := flag.String("output", "", "Output directory for CSV and config dump")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *generations > 0 {
		cfg.Experiment.Generations = *generations
	}
	if *seed != 0 {
		cfg.Neat.Seed = *seed
	}
	if *popSize > 0 {
		cfg.Experiment.PopulationSize = *popSize
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	opts := cfg.Neat
	opts.Transfer = math.Tanh
	opts.Fitness = xorFitness(opts.Transfer)

	pop, err := neat.NewPopulation(cfg.Experiment.PopulationSize, 2, 1, opts)
	if err != nil {
		log.Fatalf("failed to create population: %v", err)
	}
	defer pop.Dispose()

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		log.Fatalf("failed to create output manager: %v", err)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		log.Fatalf("failed to write config dump: %v", err)
	}

	bar := progressbar.Default(int64(cfg.Experiment.Generations), "evolving")

	solved := false
	for gen := 0; gen < cfg.Experiment.Generations; gen++ {
		if err := pop.CalculateFitness(); err != nil {
			if !errors.Is(err, neat.ErrNumeric) {
				log.Fatalf("fitness evaluation failed: %v", err)
			}
			log.Printf("warning: %v", err)
		}

		stats := telemetry.Collect(pop)
		if err := out.WriteGeneration(stats); err != nil {
			log.Fatalf("failed to write telemetry: %v", err)
		}
		if cfg.Telemetry.LogEvery > 0 && gen%cfg.Telemetry.LogEvery == 0 {
			stats.Report()
		}

		if stats.BestFitness >= cfg.Experiment.TargetFitness {
			solved = true
			break
		}

		if err := pop.CrossMutateAndSpeciate(); err != nil {
			log.Fatalf("reproduction failed: %v", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	best := pop.Best()
	if best == nil {
		log.Fatal("no organisms evaluated")
	}

	fmt.Printf("\nbest fitness %.4f after %d generations (%d nodes, %d genes)\n",
		best.Fitness, pop.Generation, best.NodeCount, len(best.Genes))
	for _, c := range xorCases {
		activations, err := best.Think(c[:2], opts.Transfer)
		if err != nil {
			log.Fatalf("propagation failed: %v", err)
		}
		fmt.Printf("  %g xor %g = %.4f (want %g)\n", c[0], c[1], activations[best.InputCount], c[2])
	}
	if !solved {
		fmt.Println("target fitness not reached within the generation budget")
	}
}
