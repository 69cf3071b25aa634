package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/review-insight/backend/internal/insight"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStorePaths(t *testing.T) {
	store := newTestStore(t)

	assert.Contains(t, store.UploadPath(".csv"), "uploaded_reviews.csv")
	assert.Contains(t, store.ResultsPath(), "latest_results.xlsx")
	assert.False(t, store.HasResults())
	assert.False(t, store.HasSummary())
}

func TestWriteResults(t *testing.T) {
	store := newTestStore(t)

	rows := []insight.AnalyzedRow{
		{OriginalText: "late delivery", Aspect: insight.AspectDeliveryShipping, Sentiment: insight.SentimentNegative, Evidence: "late", Rationale: "complaint"},
		insight.PlaceholderRow(1, "ok"),
	}
	require.NoError(t, store.WriteResults(rows, false))
	require.True(t, store.HasResults())

	f, err := excelize.OpenFile(store.ResultsPath())
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"original_text", "aspect", "sentiment", "evidence", "rationale"}, got[0])
	assert.Equal(t, "delivery_shipping", got[1][1])
	assert.Equal(t, insight.PlaceholderRationale, got[2][4])
}

func TestWriteResultsWithVerification(t *testing.T) {
	store := newTestStore(t)

	rows := []insight.AnalyzedRow{
		{OriginalText: "fine", Aspect: insight.AspectOther, Sentiment: insight.SentimentNeutral, VerificationStatus: insight.VerificationVerified},
	}
	require.NoError(t, store.WriteResults(rows, true))

	f, err := excelize.OpenFile(store.ResultsPath())
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, "verification_status", got[0][5])
	assert.Equal(t, insight.VerificationVerified, got[1][5])
}

func TestSummaryAndReport(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WriteSummary("<h3>Overview</h3><p>All good.</p>"))
	assert.True(t, store.HasSummary())

	path, err := store.BuildReport()
	require.NoError(t, err)
	assert.Equal(t, store.ReportPath(), path)
}

func TestWriteSummaryEmptyFallback(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.WriteSummary(""))

	_, err := store.BuildReport()
	require.NoError(t, err)
}

func TestBuildReportWithoutSummary(t *testing.T) {
	store := newTestStore(t)
	_, err := store.BuildReport()
	assert.Error(t, err)
}
