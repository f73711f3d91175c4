package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const (
	historySourceName = "history_csv"
	historyDateLayout = "2006-01-02"
)

var requiredHistoryColumns = []string{"home_team", "away_team", "home_score", "away_score"}

// HistoryCSV loads completed games from a CSV file with the header
// home_team,away_team,home_score,away_score and an optional date column.
type HistoryCSV struct {
	path     string
	validate *validator.Validate
}

// NewHistoryCSV creates a loader for the file at path
func NewHistoryCSV(path string) *HistoryCSV {
	return &HistoryCSV{
		path:     path,
		validate: validator.New(),
	}
}

// LoadHistory reads, validates and orders the file
func (h *HistoryCSV) LoadHistory(ctx context.Context) ([]models.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(h.path)
	if err != nil {
		return nil, NewDataSourceError(historySourceName, ErrCodeNotFound, "failed to open "+h.path, err)
	}
	defer f.Close()

	return h.read(f)
}

// LoadHistoryCSV is a convenience wrapper around HistoryCSV
func LoadHistoryCSV(ctx context.Context, path string) ([]models.MatchRecord, error) {
	return NewHistoryCSV(path).LoadHistory(ctx)
}

// ReadHistoryCSV parses history from r. Rows are sorted ascending by date
// when every row has one, otherwise file order is kept.
func ReadHistoryCSV(r io.Reader) ([]models.MatchRecord, error) {
	return NewHistoryCSV("").read(r)
}

func (h *HistoryCSV) read(r io.Reader) ([]models.MatchRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewDataSourceError(historySourceName, ErrCodeInvalidData, "empty history file", models.ErrEmptyHistory)
		}
		return nil, NewDataSourceError(historySourceName, ErrCodeInvalidData, "failed to read header", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredHistoryColumns {
		if _, ok := cols[name]; !ok {
			return nil, NewDataSourceError(historySourceName, ErrCodeInvalidData, "missing column "+name, ErrInvalidData)
		}
	}
	dateCol, hasDate := cols["date"]

	var records []models.MatchRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, NewDataSourceError(historySourceName, ErrCodeInvalidData, fmt.Sprintf("line %d", line), err)
		}
		if isBlankRow(row) {
			continue
		}

		rec, err := h.parseRow(row, cols, dateCol, hasDate)
		if err != nil {
			return nil, NewDataSourceError(historySourceName, ErrCodeInvalidData, fmt.Sprintf("line %d", line), err)
		}
		records = append(records, rec)
	}

	models.SortByDate(records)
	return records, nil
}

func (h *HistoryCSV) parseRow(row []string, cols map[string]int, dateCol int, hasDate bool) (models.MatchRecord, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	homeScore, err := strconv.ParseFloat(field("home_score"), 64)
	if err != nil {
		return models.MatchRecord{}, fmt.Errorf("home_score: %w", err)
	}
	awayScore, err := strconv.ParseFloat(field("away_score"), 64)
	if err != nil {
		return models.MatchRecord{}, fmt.Errorf("away_score: %w", err)
	}

	rec := models.MatchRecord{
		HomeTeam:  field("home_team"),
		AwayTeam:  field("away_team"),
		HomeScore: homeScore,
		AwayScore: awayScore,
	}

	if hasDate && dateCol < len(row) {
		if raw := strings.TrimSpace(row[dateCol]); raw != "" {
			d, err := time.Parse(historyDateLayout, raw)
			if err != nil {
				return models.MatchRecord{}, fmt.Errorf("date: %w", err)
			}
			rec.Date = &d
		}
	}

	if err := h.validate.Struct(rec); err != nil {
		return models.MatchRecord{}, fmt.Errorf("validation failed: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return models.MatchRecord{}, err
	}
	return rec, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
