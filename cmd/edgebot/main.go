// Package main provides the gridiron-edge command line entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/service"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.ConfigPathFromEnv("./config/config.yaml"), "Path to configuration file")
	rootCmd.AddCommand(ratingsCmd, recommendCmd, historyCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:           "edgebot",
	Short:         "NFL Elo ratings and value bet recommendations",
	Long:          `Replays completed NFL games into Elo ratings, compares them with bookmaker lines and sizes stakes with fractional Kelly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return loadConfigWithSecrets(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "edgebot %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if appLog != nil {
			appLog.WithError(err).Fatal("edgebot failed")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfigWithSecrets(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.ApplySecretsFromEnv(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()
	return nil
}

func eloConfig() elo.Config {
	return elo.Config{
		BaseRating: cfg.Elo.BaseRating,
		KFactor:    cfg.Elo.KFactor,
	}
}

func baseStrategy() strategy.BaseStrategy {
	return strategy.BaseStrategy{
		Bankroll:        cfg.Staking.Bankroll,
		FractionalKelly: cfg.Staking.FractionalKelly,
		SpreadStdev:     cfg.Staking.SpreadStdev,
		TotalsStdev:     cfg.Staking.TotalsStdev,
		DefaultPrice:    cfg.Staking.DefaultPrice,
	}
}

// openRepositories returns nil when persistence is disabled
func openRepositories(ctx context.Context) (*repository.Repositories, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	repos, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	appLog.WithField("driver", cfg.Database.Driver).Info("Database connection established")
	return repos, nil
}

func newRatingService(factory *datasource.Factory, repos *repository.Repositories) (*service.RatingService, error) {
	history, err := factory.NewHistorySource()
	if err != nil {
		return nil, err
	}
	var ratingRepo repository.RatingRepository
	if repos != nil {
		ratingRepo = repos.Rating
	}
	return service.NewRatingService(history, ratingRepo, eloConfig(), cfg.Totals.LookbackGames, logger.NewRatingLogger(appLog)), nil
}

func newEvaluationService(ratings *service.RatingService, factory *datasource.Factory, minEdge float64) (*service.EvaluationService, error) {
	quotes, err := factory.NewQuoteSource()
	if err != nil {
		return nil, err
	}

	audit := logger.NewAuditLogger(appLog)
	audit.LogStakingParameters(cfg.Staking.Bankroll, cfg.Staking.FractionalKelly, minEdge)

	strat := strategy.NewEloValueStrategy(baseStrategy()).WithLogger(appLog.WithField("component", "strategy"))
	return service.NewEvaluationService(
		ratings,
		quotes,
		strat,
		logger.NewRecommendationLogger(appLog),
		audit,
		service.EvaluationOptions{
			MinEdgePercent: minEdge,
			Concurrency:    cfg.Schedule.Concurrency,
			Bankroll:       cfg.Staking.Bankroll,
		},
	), nil
}
