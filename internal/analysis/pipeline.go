package analysis

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/ingestion"
	"github.com/review-insight/backend/internal/insight"
	"github.com/review-insight/backend/internal/llm"
	"github.com/review-insight/backend/internal/metrics"
	"github.com/review-insight/backend/pkg/logger"
)

// Row is one spreadsheet row handed to the pipeline: the original row index
// and the text of the selected review column.
type Row struct {
	ID   int
	Text string
}

// RowsFromTable extracts pipeline rows from the chosen text column. Row ids
// are the zero-based data row indexes, mirroring the source spreadsheet.
func RowsFromTable(t *ingestion.Table, col int) []Row {
	rows := make([]Row, len(t.Rows))
	for i := range t.Rows {
		rows[i] = Row{ID: i, Text: t.Cell(i, col)}
	}
	return rows
}

// Pipeline chunks rows into fixed-size batches, sends each batch to the
// analyzer and reconciles returned ids against sent ids.
type Pipeline struct {
	analyzer      llm.Analyzer
	batchSize     int
	minTextLength int
}

func NewPipeline(analyzer llm.Analyzer, batchSize, minTextLength int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 4
	}
	if minTextLength <= 0 {
		minTextLength = 5
	}
	return &Pipeline{
		analyzer:      analyzer,
		batchSize:     batchSize,
		minTextLength: minTextLength,
	}
}

// Run processes all rows in consecutive chunks of at most batchSize,
// preserving original order. Rows whose text is shorter than the minimum or
// equals "nan" are dropped before the LLM call and emit nothing. Every id
// that was sent yields at least one output row: one AnalyzedRow per returned
// insight, or the single "no insight" placeholder when the analyzer returned
// nothing for it. Output order is chunk, then row within chunk, then insight
// within row, so the result is reproducible for the same input and batch size.
func (p *Pipeline) Run(ctx context.Context, rows []Row) []insight.AnalyzedRow {
	analyzed := make([]insight.AnalyzedRow, 0, len(rows))

	for start := 0; start < len(rows); start += p.batchSize {
		end := start + p.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := make([]insight.BatchRequestItem, 0, end-start)
		for _, row := range rows[start:end] {
			if p.skip(row.Text) {
				metrics.RowsSkipped.Inc()
				continue
			}
			batch = append(batch, insight.BatchRequestItem{ID: row.ID, Text: row.Text})
		}
		if len(batch) == 0 {
			continue
		}

		metrics.BatchSize.Observe(float64(len(batch)))
		logger.Info("sending batch to LLM",
			zap.Int("batch_number", start/p.batchSize+1),
			zap.Int("reviews", len(batch)),
		)

		results := p.analyzer.AnalyzeBatch(ctx, batch)

		resultsByID := make(map[int][]insight.ReviewInsight, len(results))
		for _, res := range results {
			resultsByID[res.ID] = res.Insights
		}

		// Iterate the sent ids, not the returned ones, so a partial or empty
		// response still yields a row for every review.
		for _, item := range batch {
			metrics.RowsProcessed.Inc()
			insights := resultsByID[item.ID]
			if len(insights) == 0 {
				analyzed = append(analyzed, insight.PlaceholderRow(item.ID, item.Text))
				continue
			}
			for i, ri := range insights {
				metrics.InsightsExtracted.WithLabelValues(string(ri.Aspect), string(ri.Sentiment)).Inc()
				analyzed = append(analyzed, insight.AnalyzedRow{
					RowID:        item.ID,
					InsightIndex: i,
					OriginalText: item.Text,
					Aspect:       ri.Aspect,
					Sentiment:    ri.Sentiment,
					Evidence:     ri.Evidence,
					Rationale:    ri.Rationale,
				})
			}
		}
	}

	return analyzed
}

func (p *Pipeline) skip(text string) bool {
	if utf8.RuneCountInString(text) < p.minTextLength {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(text), "nan")
}
