package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"featnorm/internal/analysis"
	"featnorm/internal/session"
)

var (
	buildSessions   string
	buildOut        string
	buildFeatures   []string
	buildMinSamples int
	buildStrict     bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build normalization parameters from a session dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		col, err := session.Load(buildSessions)
		if err != nil {
			return err
		}

		featureIDs := buildFeatures
		if len(featureIDs) == 0 {
			featureIDs = col.FeatureIDs()
		}
		if len(featureIDs) == 0 {
			return fmt.Errorf("dataset contains no feature samples")
		}

		minSamples := buildMinSamples
		if minSamples <= 0 {
			minSamples = cfg.MinGroupSamples
		}

		builder := analysis.NewBuilder(analysis.Options{
			MinGroupSamples: minSamples,
			Workers:         cfg.BuildWorkers,
			Strict:          buildStrict || cfg.StrictBuild,
		})

		params, failures, err := builder.BuildAll(ctx, col, featureIDs)
		if err != nil {
			return err
		}
		for _, f := range failures {
			log.Warn().Str("feature", f.ID).Err(f.Err).Msg("Feature skipped")
		}

		out := resolveOutPath(buildOut, cfg.DataPath)
		if err := analysis.SaveParams(params, out); err != nil {
			return err
		}

		log.Info().
			Int("features", len(params.Features)).
			Int("skipped", len(failures)).
			Str("out", out).
			Msg("Build complete")
		return nil
	},
}

// resolveOutPath anchors a relative output path at the configured data
// directory; absolute paths are taken as-is.
func resolveOutPath(out, dataPath string) string {
	if out == "" {
		out = "normalization_params.json"
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(dataPath, out)
}

func init() {
	buildCmd.Flags().StringVar(&buildSessions, "sessions", "", "path to the session dataset (JSONL)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output path for parameters (default: normalization_params.json under DATA_PATH)")
	buildCmd.Flags().StringSliceVar(&buildFeatures, "features", nil, "feature IDs to build (default: all in dataset)")
	buildCmd.Flags().IntVar(&buildMinSamples, "min-samples", 0, "low-confidence threshold per value group")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "fail the whole batch on the first feature error")
	_ = buildCmd.MarkFlagRequired("sessions")
	rootCmd.AddCommand(buildCmd)
}
