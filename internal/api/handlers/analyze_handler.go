package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/analysis"
	"github.com/review-insight/backend/internal/artifacts"
	"github.com/review-insight/backend/internal/ingestion"
	"github.com/review-insight/backend/internal/insight"
	"github.com/review-insight/backend/internal/llm"
	"github.com/review-insight/backend/internal/metrics"
	"github.com/review-insight/backend/internal/report"
	"github.com/review-insight/backend/pkg/logger"
	"github.com/review-insight/backend/pkg/utils"
)

var supportedExtensions = map[string]struct{}{".xlsx": {}, ".xlsm": {}, ".csv": {}}

type AnalyzeHandler struct {
	pipeline   *analysis.Pipeline
	summarizer llm.Summarizer
	store      *artifacts.Store
}

func NewAnalyzeHandler(pipeline *analysis.Pipeline, summarizer llm.Summarizer, store *artifacts.Store) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:   pipeline,
		summarizer: summarizer,
		store:      store,
	}
}

// HandleAnalyze runs one synchronous analysis over an uploaded spreadsheet.
// With dual_mode=on the whole file is analyzed twice and the runs are
// compared for consistency before the summary is generated.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := supportedExtensions[ext]; !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Unsupported file type %q", ext),
		})
	}

	uploadPath := h.store.UploadPath(ext)
	if err := c.SaveFile(fileHeader, uploadPath); err != nil {
		logger.Error("Failed to save upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save uploaded file",
		})
	}

	table, err := ingestion.LoadTable(uploadPath)
	if err != nil {
		logger.Error("Failed to load spreadsheet", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read spreadsheet: " + err.Error(),
		})
	}

	textCol, err := ingestion.ResolveTextColumn(table, c.FormValue("text_column"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dualMode := isOn(c.FormValue("dual_mode"))
	runID := uuid.NewString()
	fileHash := hashUpload(uploadPath)

	logger.Info("starting analysis run",
		zap.String("run_id", runID),
		zap.String("file", fileHeader.Filename),
		zap.String("file_hash", fileHash),
		zap.String("text_column", table.Columns[textCol]),
		zap.Bool("dual_mode", dualMode),
		zap.Int("rows", len(table.Rows)),
	)

	rows := analysis.RowsFromTable(table, textCol)
	start := time.Now()

	var results []insight.AnalyzedRow
	var consistency *float64
	statsNote := ""

	if dualMode {
		run1 := h.pipeline.Run(c.Context(), rows)
		run2 := h.pipeline.Run(c.Context(), rows)
		annotated, rpt := analysis.CompareRuns(run1, run2)
		results = annotated
		consistency = &rpt.Score
		metrics.ConsistencyScore.Set(rpt.Score)
		statsNote = fmt.Sprintf("\n(Note: Analysis verified with dual-run consistency of %.2f%%.)", rpt.Score)
	} else {
		results = h.pipeline.Run(c.Context(), rows)
	}

	mode := "single"
	if dualMode {
		mode = "dual"
	}
	metrics.AnalysisDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	stats := analysis.ComputeStats(results)

	summaryHTML := ""
	summaryMD, err := h.summarizer.GenerateSummary(c.Context(), stats.Render()+statsNote)
	if err != nil {
		logger.Warn("summary generation failed", zap.String("run_id", runID), zap.Error(err))
	} else {
		summaryHTML = report.RenderHTML(summaryMD)
	}

	// Artifact writes are best effort; a failed write must not fail the run.
	if err := h.store.WriteResults(results, dualMode); err != nil {
		logger.Error("failed to write results artifact", zap.Error(err))
	}
	if err := h.store.WriteSummary(summaryHTML); err != nil {
		logger.Error("failed to write summary artifact", zap.Error(err))
	}

	metrics.AnalysisTotal.WithLabelValues("ok").Inc()
	logger.Info("analysis run completed",
		zap.String("run_id", runID),
		zap.Int("analyzed_rows", len(results)),
		zap.Duration("took", time.Since(start)),
	)

	return c.JSON(fiber.Map{
		"run_id":       runID,
		"file_hash":    fileHash,
		"text_column":  table.Columns[textCol],
		"row_count":    len(table.Rows),
		"result_count": len(results),
		"rows":         results,
		"stats":        stats,
		"summary_html": summaryHTML,
		"consistency":  consistency,
	})
}

func isOn(v string) bool {
	return v == "on" || strings.EqualFold(v, "true")
}

func hashUpload(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return utils.HashBytes(data)
}
