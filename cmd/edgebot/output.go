package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", format)
	}
}

func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeRatings prints ratings highest first
func writeRatings(w io.Writer, format string, ranked []elo.TeamRating) error {
	if format != formatTable {
		return writeStructured(w, format, ranked)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTEAM\tRATING")
	for i, tr := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\n", i+1, tr.Team, tr.Rating)
	}
	return tw.Flush()
}

func writeRecommendations(w io.Writer, format string, recs []*models.Recommendation) error {
	if format != formatTable {
		if recs == nil {
			recs = []*models.Recommendation{}
		}
		return writeStructured(w, format, recs)
	}

	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No recommendations meet the edge threshold.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCHUP\tBET\tSELECTION\tPRICE\tEDGE %\tKELLY\tSTAKE")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.4f\t%s\n",
			rec.Matchup,
			rec.BetType,
			rec.Selection,
			formatPrice(rec.AmericanOdds),
			rec.EdgePercent().StringFixed(2),
			rec.KellyFraction,
			rec.StakeAmount().StringFixed(2),
		)
	}
	return tw.Flush()
}

func formatPrice(price *int) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%+d", *price)
}
