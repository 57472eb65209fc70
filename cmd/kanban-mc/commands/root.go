package commands

import (
	"context"
	"os/signal"
	"syscall"

	"kanban-mc/internal/config"
	"kanban-mc/internal/eazybi"
	"kanban-mc/internal/logging"
	"kanban-mc/internal/server"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	reportClient eazybi.Client
)

var rootCmd = &cobra.Command{
	Use:   "kanban-mc",
	Short: "kanban-mc forecasts kanban delivery from eazyBI cycletime data",
	Long: `An HTTP service and CLI that turns an eazyBI issue-completion export into
cycletime percentiles and a Monte-Carlo forecast of future delivery.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		reportClient = eazybi.NewClient(cfg.FetchTimeout)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("kanban-mc starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the forecast HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server starting")
	return server.New(cfg, reportClient).Run(ctx)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd)
}
