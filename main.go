package main

import (
	"flag"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/vroomon/car"
	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/evolution"
	"github.com/pthm-cable/vroomon/genome"
	"github.com/pthm-cable/vroomon/sim"
	"github.com/pthm-cable/vroomon/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Generations to evolve (0 = use config)")
	popSize := flag.Int("population", 0, "Population size (0 = use config)")
	dnaLength := flag.Int("dna-length", 0, "Initial genome slot count (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and best DNA")
	parallel := flag.Bool("parallel", false, "Score each car in its own space on a worker pool")
	dnaPath := flag.String("dna", "", "Score a single saved DNA file and exit")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *generations > 0 {
		cfg.Population.Generations = *generations
	}
	if *popSize > 0 {
		cfg.Population.Size = *popSize
	}
	if *dnaLength > 0 {
		cfg.Population.DNALength = *dnaLength
	}
	if *parallel {
		cfg.Simulation.Parallel = true
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	ground := sim.NewGround(rng, cfg.Ground)
	simulation := sim.New(cfg, rand.New(rand.NewSource(rng.Int63())), ground)

	if *dnaPath != "" {
		scoreSavedDNA(*dnaPath, simulation, rng, cfg)
		return
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to snapshot config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting evolution",
		"seed", rngSeed,
		"population", cfg.Population.Size,
		"dna_length", cfg.Population.DNALength,
		"generations", cfg.Population.Generations,
		"parallel", cfg.Simulation.Parallel,
	)

	pop := evolution.InitPopulation(rng, cfg.Population.Size, cfg.Population.DNALength)
	var best *genome.DNA
	bestScore := math.Inf(-1)

	for gen := 1; gen <= cfg.Population.Generations; gen++ {
		next, rep, err := evolution.Evolve(pop, simulation, rng, cfg)
		if err != nil {
			slog.Error("generation failed", "generation", gen, "error", err)
			os.Exit(1)
		}

		stats := telemetry.Summarize(gen, rep.Scores, rep.Retained, pop)
		slog.Info("generation complete",
			"generation", gen,
			"best", stats.Best,
			"mean", stats.Mean,
			"worst", stats.Worst,
			"mean_genome_len", stats.MeanGenomeLen,
		)
		if err := om.WriteGeneration(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
			os.Exit(1)
		}

		if rep.BestScore > bestScore {
			bestScore = rep.BestScore
			best = rep.Best
		}
		pop = next
	}

	if err := om.WriteBestDNA(best); err != nil {
		slog.Error("failed to save best dna", "error", err)
		os.Exit(1)
	}
	slog.Info("evolution complete", "best_score", bestScore)
}

// scoreSavedDNA builds and scores a single car from a DNA file.
func scoreSavedDNA(path string, simulation *sim.Simulation, rng *rand.Rand, cfg *config.Config) {
	d, err := genome.LoadFile(path)
	if err != nil {
		slog.Error("failed to load dna", "path", path, "error", err)
		os.Exit(1)
	}
	c, err := car.New(d, rng, cfg)
	if err != nil {
		slog.Error("failed to build car", "error", err)
		os.Exit(1)
	}
	score := simulation.ScoreCar(c)
	slog.Info("car scored", "path", path, "score", score, "slots", d.Len())
}
