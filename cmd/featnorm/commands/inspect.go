package commands

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"featnorm/internal/analysis"
	"featnorm/internal/report"
	"featnorm/internal/session"
)

var (
	inspectSessions string
	inspectFeatures []string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report censoring patterns and per-feature survival statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := session.Load(inspectSessions)
		if err != nil {
			return err
		}

		r := report.NewReporter(os.Stdout)
		r.Overview(col)
		r.PhaseBreakdown(col)
		r.EvaluatorBreakdown(col)

		featureIDs := inspectFeatures
		if len(featureIDs) == 0 {
			featureIDs = col.FeatureIDs()
		}
		for _, id := range featureIDs {
			groups, err := analysis.AggregateFeature(col, id)
			if err != nil {
				if errors.Is(err, analysis.ErrNoData) {
					log.Warn().Str("feature", id).Msg("No observations, skipping")
					continue
				}
				return err
			}
			r.FeatureTable(id, groups)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSessions, "sessions", "", "path to the session dataset (JSONL)")
	inspectCmd.Flags().StringSliceVar(&inspectFeatures, "features", nil, "feature IDs to report (default: all in dataset)")
	_ = inspectCmd.MarkFlagRequired("sessions")
	rootCmd.AddCommand(inspectCmd)
}
