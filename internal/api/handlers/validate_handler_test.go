package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-insight/backend/internal/insight"
	"github.com/review-insight/backend/internal/validation"
)

func newValidateApp(t *testing.T, analyzer *stubAnalyzer, goldPath string) *fiber.App {
	t.Helper()
	handler := NewValidateHandler(validation.NewHarness(analyzer, 4), goldPath)
	app := fiber.New()
	app.Get("/api/v1/validate", handler.HandleValidate)
	return app
}

func writeGoldFile(t *testing.T, samples []insight.GoldStandardSample) string {
	t.Helper()
	data, err := json.Marshal(samples)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "gold_standard.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestHandleValidate(t *testing.T) {
	gold := []insight.GoldStandardSample{
		{Text: "The strap broke within a week", LabelAspect: "product_quality", LabelSentiment: "negative"},
		{Text: "Support answered in minutes", LabelAspect: "service", LabelSentiment: "positive"},
	}
	analyzer := &stubAnalyzer{results: map[int][]insight.ReviewInsight{
		0: {{Aspect: insight.AspectProductQuality, Sentiment: insight.SentimentNegative}},
		1: {{Aspect: insight.AspectService, Sentiment: insight.SentimentPositive}},
	}}
	app := newValidateApp(t, analyzer, writeGoldFile(t, gold))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/validate", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var m validation.Metrics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, 2, m.SampleCount)
	assert.Equal(t, 100.0, m.Accuracy)
	assert.Nil(t, m.Consistency)
	assert.Empty(t, m.Error)
}

func TestHandleValidateDualMode(t *testing.T) {
	gold := []insight.GoldStandardSample{
		{Text: "Good value for the money", LabelAspect: "price_value", LabelSentiment: "positive"},
	}
	analyzer := &stubAnalyzer{results: map[int][]insight.ReviewInsight{
		0: {{Aspect: insight.AspectPriceValue, Sentiment: insight.SentimentPositive}},
	}}
	app := newValidateApp(t, analyzer, writeGoldFile(t, gold))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/validate?dual_mode=on", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var m validation.Metrics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	require.NotNil(t, m.Consistency)
	assert.Equal(t, 100.0, *m.Consistency)
}

func TestHandleValidateMissingGoldFile(t *testing.T) {
	app := newValidateApp(t, &stubAnalyzer{}, filepath.Join(t.TempDir(), "absent.json"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/validate", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleValidateEmptyGoldSet(t *testing.T) {
	app := newValidateApp(t, &stubAnalyzer{}, writeGoldFile(t, []insight.GoldStandardSample{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/validate", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var m validation.Metrics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.NotEmpty(t, m.Error)
}
