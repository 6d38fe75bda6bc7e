package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"featnorm/internal/analysis"
	"featnorm/internal/session"
)

var (
	validateParams   string
	validateSessions string
	validateWindow   int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a persisted parameter file before use",
	Long: `Loads a parameter file with full integrity checks and, when a dataset or an
explicit window is given, verifies the observation window matches. Evaluation
must never start on partial, corrupt, or mismatched parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := analysis.LoadParams(validateParams)
		if err != nil {
			return err
		}

		window := validateWindow
		if validateSessions != "" {
			col, err := session.Load(validateSessions)
			if err != nil {
				return err
			}
			window = col.ObservationWindow
		}
		if window > 0 {
			if err := analysis.ValidateWindow(params, window); err != nil {
				return err
			}
		}

		log.Info().
			Int("features", len(params.Features)).
			Int("window", params.ObservationWindow).
			Str("method", params.Method).
			Msg("Parameters are valid")
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateParams, "params", "", "path to the parameter file")
	validateCmd.Flags().StringVar(&validateSessions, "sessions", "", "dataset to check the observation window against")
	validateCmd.Flags().IntVar(&validateWindow, "window", 0, "expected observation window")
	_ = validateCmd.MarkFlagRequired("params")
	rootCmd.AddCommand(validateCmd)
}
