package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/service"
)

var (
	recommendFormat  string
	recommendMinEdge float64
	recommendSave    bool
	historyFormat    string
	historyLimit     int
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendFormat, "format", "f", formatTable, "Output format: table, json or yaml")
	recommendCmd.Flags().Float64Var(&recommendMinEdge, "min-edge", -1, "Minimum edge percentage (defaults to staking.min_edge_percent)")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "Deliver recommendations to the configured database, bets log and Telegram")

	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", formatTable, "Output format: table, json or yaml")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of recommendations to show")
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run one evaluation cycle against current odds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(recommendFormat); err != nil {
			return err
		}
		ctx := cmd.Context()

		minEdge := cfg.Staking.MinEdgePercent
		if cmd.Flags().Changed("min-edge") {
			minEdge = recommendMinEdge
		}

		factory := datasource.NewFactory(cfg, appLog)
		var d *deps
		if recommendSave {
			var err error
			if d, err = buildDeliveries(ctx); err != nil {
				return err
			}
			defer d.Close()
		} else {
			d = &deps{}
		}

		ratings, err := newRatingService(factory, d.repos)
		if err != nil {
			return err
		}
		evaluator, err := newEvaluationService(ratings, factory, minEdge)
		if err != nil {
			return err
		}
		d.attach(evaluator)

		result, err := evaluator.RunCycle(ctx)
		if err != nil {
			return err
		}
		appLog.WithField("cycle_id", result.CycleID.String()).Info(result.Stats.String())

		return writeRecommendations(cmd.OutOrStdout(), recommendFormat, service.SortByEdge(result.Issued))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recently issued recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(historyFormat); err != nil {
			return err
		}
		if !cfg.Database.Enabled {
			return fmt.Errorf("history requires database.enabled")
		}

		repos, err := openRepositories(cmd.Context())
		if err != nil {
			return err
		}
		defer repos.Close()

		recs, err := repos.Recommendation.GetRecent(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load recommendations: %w", err)
		}
		return writeRecommendations(cmd.OutOrStdout(), historyFormat, recs)
	},
}
