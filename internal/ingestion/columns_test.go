package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTextColumnPriorityName(t *testing.T) {
	table := &Table{
		Columns: []string{"order_id", "Review Text", "rating"},
		Rows:    [][]string{{"1", "great", "5"}},
	}
	assert.Equal(t, 1, DetectTextColumn(table))
}

func TestDetectTextColumnKeywordFallback(t *testing.T) {
	table := &Table{
		Columns: []string{"review_id", "customer_feedback", "review_date"},
		Rows:    [][]string{{"1", "works well", "2024-01-01"}},
	}

	// "review_id" and "review_date" contain the keyword but are excluded.
	assert.Equal(t, 1, DetectTextColumn(table))
}

func TestDetectTextColumnLongestMean(t *testing.T) {
	table := &Table{
		Columns: []string{"sku", "notes"},
		Rows: [][]string{
			{"A1", "this is a fairly long free text field"},
			{"B2", "another long comment about the product"},
		},
	}
	assert.Equal(t, 1, DetectTextColumn(table))
}

func TestDetectTextColumnDefaultsToFirst(t *testing.T) {
	table := &Table{Columns: []string{"a", "b"}}
	assert.Equal(t, 0, DetectTextColumn(table))
}

func TestResolveTextColumnOverride(t *testing.T) {
	table := &Table{Columns: []string{"id", "comment"}}

	col, err := ResolveTextColumn(table, " Comment ")
	require.NoError(t, err)
	assert.Equal(t, 1, col)

	_, err = ResolveTextColumn(table, "missing")
	assert.ErrorContains(t, err, "missing")
}

func TestResolveTextColumnAutoDetects(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "text"},
		Rows:    [][]string{{"1", "fine"}},
	}
	col, err := ResolveTextColumn(table, "")
	require.NoError(t, err)
	assert.Equal(t, 1, col)
}
