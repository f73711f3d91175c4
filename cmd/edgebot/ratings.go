package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/elo"
)

var (
	ratingsFormat string
	ratingsLatest bool
	ratingsTop    int
)

func init() {
	ratingsCmd.Flags().StringVarP(&ratingsFormat, "format", "f", formatTable, "Output format: table, json or yaml")
	ratingsCmd.Flags().BoolVar(&ratingsLatest, "latest", false, "Print the latest persisted snapshot instead of replaying history")
	ratingsCmd.Flags().IntVar(&ratingsTop, "top", 0, "Only print the N highest rated teams")
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Replay match history and print team ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(ratingsFormat); err != nil {
			return err
		}
		ctx := cmd.Context()

		var ranked []elo.TeamRating
		if ratingsLatest {
			r, err := latestPersistedRatings(cmd)
			if err != nil {
				return err
			}
			ranked = r
		} else {
			repos, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			if repos != nil {
				defer repos.Close()
			}

			ratings, err := newRatingService(datasource.NewFactory(cfg, appLog), repos)
			if err != nil {
				return err
			}
			state, err := ratings.Refresh(ctx)
			if err != nil {
				return err
			}
			ranked = state.Ratings.Ranked()
		}

		if ratingsTop > 0 && ratingsTop < len(ranked) {
			ranked = ranked[:ratingsTop]
		}
		return writeRatings(cmd.OutOrStdout(), ratingsFormat, ranked)
	},
}

func latestPersistedRatings(cmd *cobra.Command) ([]elo.TeamRating, error) {
	if !cfg.Database.Enabled {
		return nil, fmt.Errorf("--latest requires database.enabled")
	}
	repos, err := openRepositories(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer repos.Close()

	meta, entries, err := repos.Rating.GetLatestSnapshot(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	appLog.WithField("snapshot_id", meta.ID.String()).Debug("Loaded persisted snapshot")
	ratings := make(map[string]float64, len(entries))
	for _, e := range entries {
		ratings[e.Team] = e.Rating
	}
	return elo.NewSnapshot(meta.BaseRating, ratings).Ranked(), nil
}
