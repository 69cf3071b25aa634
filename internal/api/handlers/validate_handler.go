package handlers

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/validation"
	"github.com/review-insight/backend/pkg/logger"
)

type ValidateHandler struct {
	harness  *validation.Harness
	goldPath string
}

func NewValidateHandler(harness *validation.Harness, goldPath string) *ValidateHandler {
	return &ValidateHandler{
		harness:  harness,
		goldPath: goldPath,
	}
}

// HandleValidate scores the pipeline against the configured gold standard
// file. A metrics computation failure comes back inside the payload as an
// error field rather than a 5xx.
func (h *ValidateHandler) HandleValidate(c *fiber.Ctx) error {
	gold, err := validation.LoadGoldSet(h.goldPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Gold standard file missing",
			})
		}
		logger.Error("Failed to load gold standard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load gold standard",
		})
	}

	metrics := h.harness.Validate(c.Context(), gold, isOn(c.Query("dual_mode")))
	return c.JSON(metrics)
}
