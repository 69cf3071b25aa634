package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/review-insight/backend/pkg/logger"
)

// Columns checked for an exact case-insensitive match first.
var priorityColumns = []string{"text", "content", "body", "comment", "review_text", "review text"}

// DetectTextColumn picks the column most likely to hold free-text reviews.
// Best effort, first match wins:
//  1. exact case-insensitive match against the priority list
//  2. name containing "review" or "feedback" but not "id" or "date"
//  3. greatest mean cell length across all rows
//  4. the first column
func DetectTextColumn(t *Table) int {
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		for _, want := range priorityColumns {
			if lower == want {
				return indexOf(t.Columns, col)
			}
		}
	}

	for i, col := range t.Columns {
		lower := strings.ToLower(col)
		if (strings.Contains(lower, "review") || strings.Contains(lower, "feedback")) &&
			!strings.Contains(lower, "id") && !strings.Contains(lower, "date") {
			return i
		}
	}

	if best := longestMeanColumn(t); best >= 0 {
		return best
	}

	return 0
}

// ResolveTextColumn honors an explicit column override, falling back to
// detection when none is given. Pinning a column that does not exist is an
// error rather than a silent misdetection.
func ResolveTextColumn(t *Table, override string) (int, error) {
	if strings.TrimSpace(override) == "" {
		col := DetectTextColumn(t)
		logger.Info("text column detected", zap.String("column", t.Columns[col]))
		return col, nil
	}

	for i, col := range t.Columns {
		if strings.EqualFold(col, strings.TrimSpace(override)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in spreadsheet", override)
}

// longestMeanColumn returns the column with the greatest mean cell length,
// ties broken by column order. Returns -1 only for a table without columns.
func longestMeanColumn(t *Table) int {
	if len(t.Columns) == 0 {
		return -1
	}

	best := 0
	bestMean := -1.0
	for col := range t.Columns {
		total := 0
		for row := range t.Rows {
			total += utf8.RuneCountInString(t.Cell(row, col))
		}
		mean := 0.0
		if len(t.Rows) > 0 {
			mean = float64(total) / float64(len(t.Rows))
		}
		if mean > bestMean {
			bestMean = mean
			best = col
		}
	}
	return best
}

func indexOf(columns []string, name string) int {
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	return 0
}
