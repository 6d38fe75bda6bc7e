package main

import (
	"flag"
	"fmt"
	"os"

	"featnorm/cmd/sessiongen/engine"
	"featnorm/internal/session"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	count := flag.Int("count", 200, "Number of episodes to generate")
	window := flag.Int("window", 500, "Observation window in turns")
	seed := flag.Int64("seed", 0, "Random seed (0 uses a time-based seed)")
	out := flag.String("out", "./sessions.jsonl", "Output path for the session file")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Episodes: *count,
		Window:   *window,
		Seed:     *seed,
	}

	fmt.Printf("Generating scenario '%s' (Episodes: %d, Window: %d) to %s...\n",
		cfg.Scenario, cfg.Episodes, cfg.Window, *out)

	col, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate sessions: %v\n", err)
		os.Exit(1)
	}

	if err := session.Save(col, *out); err != nil {
		fmt.Printf("Failed to save sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
