package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-insight/backend/internal/artifacts"
	"github.com/review-insight/backend/internal/insight"
)

func newArtifactApp(t *testing.T) (*fiber.App, *artifacts.Store) {
	t.Helper()
	store, err := artifacts.NewStore(t.TempDir())
	require.NoError(t, err)

	handler := NewArtifactHandler(store)
	app := fiber.New()
	app.Get("/api/v1/artifacts/data", handler.DownloadData)
	app.Get("/api/v1/artifacts/report", handler.DownloadReport)
	return app, store
}

func TestDownloadDataBeforeAnyRun(t *testing.T) {
	app, _ := newArtifactApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/data", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDownloadData(t *testing.T) {
	app, store := newArtifactApp(t)
	require.NoError(t, store.WriteResults([]insight.AnalyzedRow{insight.PlaceholderRow(0, "ok")}, false))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/data", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "review_analysis_data.xlsx")
}

func TestDownloadReport(t *testing.T) {
	app, store := newArtifactApp(t)
	require.NoError(t, store.WriteSummary("<h3>Overview</h3><p>Steady quarter.</p>"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/report", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "AI_Insight_Report.docx")
}

func TestDownloadReportBeforeSummary(t *testing.T) {
	app, _ := newArtifactApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/report", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
