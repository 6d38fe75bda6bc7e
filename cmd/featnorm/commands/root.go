package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"featnorm/internal/config"
	"featnorm/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "featnorm",
	Short: "Survival-based feature normalization for board evaluators",
	Long: `featnorm builds normalization parameters for board evaluation features from
recorded game sessions. It estimates expected remaining survival time per raw
feature value with a Kaplan-Meier estimator over right-censored episodes,
anchors the scale at count-weighted P05/P95 boundaries, and emits dense
lookup tables consumed by the placement evaluator and weight trainer.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("featnorm starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
