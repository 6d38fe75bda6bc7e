// Package engine generates synthetic session datasets with a known
// relationship between board features and survival, so the normalization
// pipeline can be exercised against data whose ground truth is controlled.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"featnorm/internal/session"
)

type GeneratorConfig struct {
	Scenario string // "mild", "chaos" or "drift"
	Episodes int
	Window   int
	Seed     int64 // 0 uses a time-based seed
}

var evaluators = []string{"greedy", "lookahead", "random"}

// Generate builds a collection of synthetic episodes. Episode lifetimes
// follow a Weibull distribution whose scale shrinks as board quality
// degrades, so high hole counts and tall stacks genuinely predict early
// deaths. Episodes outliving the window are censored.
func Generate(cfg GeneratorConfig) (*session.Collection, error) {
	if cfg.Episodes <= 0 {
		return nil, fmt.Errorf("episode count must be positive, got %d", cfg.Episodes)
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("observation window must be positive, got %d", cfg.Window)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	col := &session.Collection{ObservationWindow: cfg.Window}

	for i := 0; i < cfg.Episodes; i++ {
		// quality in [0,1]: 1 is a clean board player, 0 a messy one.
		quality := rng.Float64()

		k, lambda := 2.0, float64(cfg.Window)*(0.2+0.9*quality)
		switch cfg.Scenario {
		case "chaos":
			k = 0.8 // heavy tail, frequent very short and very long runs
		case "drift":
			// Later episodes come from a steadily weaker player.
			ratio := float64(i) / float64(cfg.Episodes)
			lambda *= 1.0 - 0.6*ratio
		}

		lifetime := int(weibullSample(rng, k, lambda))
		if lifetime < 1 {
			lifetime = 1
		}

		survived := lifetime
		gameOver := true
		if survived >= cfg.Window {
			survived = cfg.Window
			gameOver = false
		}

		ep := session.Episode{
			PlacementEvaluator: evaluators[i%len(evaluators)],
			SurvivedTurns:      survived,
			GameOver:           gameOver,
		}

		// Sample a handful of boards over the episode's life. Feature
		// values worsen as quality drops and as the episode ages.
		captures := 1 + rng.Intn(4)
		for c := 0; c < captures; c++ {
			turn := rng.Intn(survived + 1)
			progress := float64(turn) / float64(cfg.Window)
			messiness := (1 - quality) + 0.5*progress

			ep.Boards = append(ep.Boards, session.BoardSample{
				Turn: turn,
				Features: map[string]int{
					"num_holes":  noisyCount(rng, 8*messiness),
					"max_height": noisyCount(rng, 4+12*messiness),
					"bumpiness":  noisyCount(rng, 10*messiness),
				},
			})
		}

		col.Episodes = append(col.Episodes, ep)
	}

	return col, nil
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// noisyCount draws a non-negative integer around the given center.
func noisyCount(rng *rand.Rand, center float64) int {
	v := int(math.Round(center + rng.NormFloat64()*1.5))
	if v < 0 {
		return 0
	}
	return v
}
