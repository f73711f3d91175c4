package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/health"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/notify"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
	"github.com/yourusername/gridiron-edge/internal/service"
)

var (
	serveRefreshCron string
	serveRunNow      bool
)

func init() {
	serveCmd.Flags().StringVar(&serveRefreshCron, "refresh-cron", "0 0 6 * * *", "Cron expression for rebuilding ratings (empty to disable)")
	serveCmd.Flags().BoolVar(&serveRunNow, "run-now", true, "Run one evaluation cycle at startup")
}

// deps holds the optional delivery sinks
type deps struct {
	repos    *repository.Repositories
	notifier notify.Notifier
	betsLog  *service.BetsLog
}

func buildDeliveries(ctx context.Context) (*deps, error) {
	d := &deps{}

	repos, err := openRepositories(ctx)
	if err != nil {
		return nil, err
	}
	d.repos = repos

	if cfg.Output.BetsLogPath != "" {
		d.betsLog = service.NewBetsLog(cfg.Output.BetsLogPath)
	}

	if cfg.Telegram.Enabled {
		n, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, appLog.WithField("component", "telegram"))
		if err != nil {
			d.Close()
			return nil, err
		}
		d.notifier = n
	}
	return d, nil
}

func (d *deps) attach(evaluator *service.EvaluationService) {
	if d.repos != nil {
		evaluator.WithRepository(d.repos.Recommendation)
	}
	if d.notifier != nil {
		evaluator.WithNotifier(d.notifier)
	}
	if d.betsLog != nil {
		evaluator.WithBetsLog(d.betsLog)
	}
}

func (d *deps) Close() {
	if d.repos == nil {
		return
	}
	if err := d.repos.Close(); err != nil {
		appLog.WithError(err).Error("Failed to close database connection")
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled evaluation cycles with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		appLog.WithFields(logrus.Fields{
			"environment": cfg.App.Environment,
			"log_level":   cfg.App.LogLevel,
			"version":     Version,
		}).Info("gridiron-edge starting")

		d, err := buildDeliveries(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		factory := datasource.NewFactory(cfg, appLog)
		ratings, err := newRatingService(factory, d.repos)
		if err != nil {
			return err
		}
		evaluator, err := newEvaluationService(ratings, factory, cfg.Staking.MinEdgePercent)
		if err != nil {
			return err
		}
		d.attach(evaluator)

		if _, err := ratings.Refresh(ctx); err != nil {
			return fmt.Errorf("initial ratings build failed: %w", err)
		}

		healthCfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Logger:      appLog,
			Ratings:     ratings,
		}
		if d.repos != nil {
			healthCfg.DB = d.repos
		}
		if cfg.Metrics.Enabled {
			healthCfg.Port = strconv.Itoa(cfg.Metrics.Port)
			healthCfg.MetricsPath = cfg.Metrics.Path
			healthCfg.MetricsHandler = metrics.Handler()
		}
		healthServer := health.NewServer(healthCfg)
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}

		sched := scheduler.NewScheduler(evaluator, ratings, appLog)
		if err := sched.ScheduleEvaluation(cfg.Schedule.EvaluationCron); err != nil {
			return err
		}
		if serveRefreshCron != "" {
			if err := sched.ScheduleRatingsRefresh(serveRefreshCron); err != nil {
				return err
			}
		}

		if serveRunNow {
			if result, err := sched.RunNow(ctx); err != nil {
				appLog.WithError(err).Warn("Startup evaluation cycle failed")
			} else {
				appLog.WithField("cycle_id", result.CycleID.String()).Info(result.Stats.String())
			}
		}

		if err := sched.Start(); err != nil {
			return err
		}
		healthServer.SetReady(true)
		appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			appLog.WithField("signal", sig).Info("Shutdown signal received")
		case <-ctx.Done():
		}

		healthServer.SetReady(false)
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Scheduler did not stop cleanly")
		}
		if err := healthServer.Shutdown(); err != nil {
			appLog.WithError(err).Error("Health server did not stop cleanly")
		}

		appLog.Info("gridiron-edge stopped")
		return nil
	},
}
