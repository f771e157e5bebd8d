package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/llm"
	"alfredoptarigan/resume-ranker/internal/models"
)

type HealthHandler struct {
	llmClient llm.Client
}

func NewHealthHandler(llmClient llm.Client) *HealthHandler {
	return &HealthHandler{llmClient: llmClient}
}

// HandleHealth handles GET /api/v1/health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	resp := models.HealthResponse{
		Status: "healthy",
		Time:   time.Now(),
	}
	if h.llmClient != nil {
		resp.Provider = string(h.llmClient.Provider())
		resp.Model = h.llmClient.Model()
	}
	return c.JSON(resp)
}
