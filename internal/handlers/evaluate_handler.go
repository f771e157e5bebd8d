package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/llm"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

type EvaluationHandler struct {
	evaluator services.EvaluatorService
	uploads   *UploadParser
	llmClient llm.Client
	logger    *zap.Logger
}

func NewEvaluationHandler(
	evaluator services.EvaluatorService,
	uploads *UploadParser,
	llmClient llm.Client,
	logger *zap.Logger,
) *EvaluationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationHandler{
		evaluator: evaluator,
		uploads:   uploads,
		llmClient: llmClient,
		logger:    logger,
	}
}

// HandleIndex handles GET /
func (h *EvaluationHandler) HandleIndex(c *fiber.Ctx) error {
	return c.Render(indexView, h.newPage())
}

// HandleEvaluatePage handles POST /evaluate and renders the ranked results.
func (h *EvaluationHandler) HandleEvaluatePage(c *fiber.Ctx) error {
	page := h.newPage()

	form, err := h.uploads.Parse(c)
	if err != nil {
		return h.renderFormError(c, page, err)
	}
	page.Form = formEcho{JDText: form.JDText, Details: form.Details}

	outcome, status := h.evaluate(c, form)
	page.setOutcome(outcome)
	if status != fiber.StatusOK && len(outcome.Results) == 1 {
		page.Error = outcome.Results[0].Error
	}

	return c.Status(status).Render(indexView, page)
}

// renderFormError shows an unreadable form on the page itself. Client errors
// keep their message; anything else gets the generic one.
func (h *EvaluationHandler) renderFormError(c *fiber.Ctx, page pageData, err error) error {
	status, message := fiber.StatusInternalServerError, InternalErrorMessage

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		status, message = fiberErr.Code, fiberErr.Message
	} else {
		h.logger.Error("failed to read evaluation form",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	page.Error = message
	return c.Status(status).Render(indexView, page)
}

// HandleEvaluate handles POST /api/v1/evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	form, err := h.uploads.Parse(c)
	if err != nil {
		return err
	}

	outcome, status := h.evaluate(c, form)
	return c.Status(status).JSON(outcome.response())
}

// evaluate ranks the resumes and drafts emails for the top candidate. A
// batch-level failure is reported through the status code with the single
// error entry as the results.
func (h *EvaluationHandler) evaluate(c *fiber.Ctx, form *EvaluateForm) (evaluationOutcome, int) {
	ctx := c.UserContext()
	requestID := uuid.NewString()
	c.Set("X-Request-ID", requestID)

	log := h.logger.With(
		zap.String("request_id", requestID),
		zap.Int("resumes", len(form.Resumes)),
	)
	log.Info("evaluation requested")

	results, err := h.evaluator.EvaluateCandidates(ctx, form.Resumes, form.Source())
	if err != nil {
		status := batchStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Error("evaluation batch failed", zap.Error(err))
			results = []models.CandidateResult{{Error: InternalErrorMessage}}
		} else {
			log.Warn("evaluation batch rejected", zap.Error(err))
		}
		return evaluationOutcome{Results: results}, status
	}

	outcome := evaluationOutcome{Results: results}
	emails, err := h.evaluator.DraftEmails(ctx, results, form.Details.Role())
	if err != nil {
		log.Warn("failed to draft emails", zap.Error(err))
		outcome.EmailError = err.Error()
	}
	outcome.Emails = emails

	log.Info("evaluation completed")
	return outcome, fiber.StatusOK
}

func batchStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNoJobDescription), errors.Is(err, services.ErrExtraction):
		return fiber.StatusBadRequest
	case errors.Is(err, llm.ErrProvider), errors.Is(err, llm.ErrMalformedResponse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *EvaluationHandler) newPage() pageData {
	if h.llmClient == nil {
		return newPageData("", "")
	}
	return newPageData(string(h.llmClient.Provider()), h.llmClient.Model())
}
