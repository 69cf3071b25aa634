package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/artifacts"
	"github.com/review-insight/backend/pkg/logger"
)

type ArtifactHandler struct {
	store *artifacts.Store
}

func NewArtifactHandler(store *artifacts.Store) *ArtifactHandler {
	return &ArtifactHandler{store: store}
}

// DownloadData serves the spreadsheet produced by the last analysis run.
func (h *ArtifactHandler) DownloadData(c *fiber.Ctx) error {
	if !h.store.HasResults() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No data generated yet.",
		})
	}
	return c.Download(h.store.ResultsPath(), "review_analysis_data.xlsx")
}

// DownloadReport builds the Word report from the last summary and serves it.
func (h *ArtifactHandler) DownloadReport(c *fiber.Ctx) error {
	if !h.store.HasSummary() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No report generated yet.",
		})
	}

	path, err := h.store.BuildReport()
	if err != nil {
		logger.Error("Failed to build report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build report",
		})
	}
	return c.Download(path, "AI_Insight_Report.docx")
}
