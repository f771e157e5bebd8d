package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/llm"
	"alfredoptarigan/resume-ranker/internal/models"
)

// RejectionRecipient addresses the generic rejection email.
const RejectionRecipient = "Candidate"

type EvaluatorService interface {
	// ResolveJobDescription turns the chosen source into job description text.
	ResolveJobDescription(ctx context.Context, src models.JobDescriptionSource) (string, error)
	// EvaluateCandidates scores every resume against the job description and
	// returns the results ranked by score. A batch-level failure yields a
	// single error entry together with the error.
	EvaluateCandidates(ctx context.Context, resumes []models.Upload, src models.JobDescriptionSource) ([]models.CandidateResult, error)
	// DraftEmails drafts an interview email for the top candidate and a
	// generic rejection email. It returns nil when there is no usable top
	// candidate. When only the rejection email fails, the interview email is
	// returned together with the error.
	DraftEmails(ctx context.Context, results []models.CandidateResult, role string) (*models.Emails, error)
}

type evaluatorService struct {
	llmClient llm.Client
	extractor DocumentExtractor
	worker    Worker
	logger    *zap.Logger
}

func NewEvaluatorService(
	llmClient llm.Client,
	extractor DocumentExtractor,
	worker Worker,
	logger *zap.Logger,
) EvaluatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if worker == nil {
		worker = NewWorker(1, logger)
	}
	return &evaluatorService{
		llmClient: llmClient,
		extractor: extractor,
		worker:    worker,
		logger:    logger,
	}
}

func (e *evaluatorService) ResolveJobDescription(ctx context.Context, src models.JobDescriptionSource) (string, error) {
	switch s := src.(type) {
	case models.UploadedFile:
		text, err := e.extractor.Extract(ctx, s.Filename, s.Data)
		if err != nil {
			return "", fmt.Errorf("failed to read job description file: %w", err)
		}
		return text, nil

	case models.FreeText:
		if strings.TrimSpace(s.Text) == "" {
			return "", models.ErrNoJobDescription
		}
		return s.Text, nil

	case models.GenerationRequest:
		if strings.TrimSpace(s.Details.JobTitle) == "" {
			return "", models.ErrNoJobDescription
		}
		e.logger.Info("generating job description", zap.String("job_title", s.Details.JobTitle))
		text, err := e.llmClient.GenerateJobDescription(ctx, s.Details)
		if err != nil {
			return "", fmt.Errorf("failed to generate job description: %w", err)
		}
		return text, nil

	default:
		return "", models.ErrNoJobDescription
	}
}

func (e *evaluatorService) EvaluateCandidates(ctx context.Context, resumes []models.Upload, src models.JobDescriptionSource) ([]models.CandidateResult, error) {
	start := time.Now()

	jdText, err := e.ResolveJobDescription(ctx, src)
	if err != nil {
		e.logger.Warn("job description unavailable", zap.Error(err))
		return []models.CandidateResult{models.NewFailedResult("", err)}, err
	}

	e.logger.Info("evaluating candidates",
		zap.Int("resumes", len(resumes)),
		zap.Int("jd_length", len(jdText)),
		zap.Int("concurrency", e.worker.Concurrency()),
	)

	// Results are stored by submission index so the stable sort sees the
	// submission order regardless of completion order.
	results := make([]models.CandidateResult, len(resumes))
	e.worker.Run(ctx, len(resumes), func(ctx context.Context, i int) {
		results[i] = e.evaluateResume(ctx, jdText, resumes[i])
	})

	models.RankCandidates(results)

	e.logger.Info("evaluation finished",
		zap.Int("resumes", len(resumes)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func (e *evaluatorService) evaluateResume(ctx context.Context, jdText string, resume models.Upload) models.CandidateResult {
	log := e.logger.With(zap.String("filename", resume.Filename))

	resumeText, err := e.extractor.Extract(ctx, resume.Filename, resume.Data)
	if err != nil {
		log.Warn("failed to extract resume", zap.Error(err))
		return models.NewFailedResult(resume.Filename, err)
	}

	evaluation, err := e.llmClient.EvaluateResume(ctx, jdText, resumeText)
	if err != nil {
		log.Warn("failed to evaluate resume", zap.Error(err))
		return models.NewFailedResult(resume.Filename, err)
	}

	result := models.NewCandidateResult(resume.Filename, evaluation.Score, evaluation.MissingSkills, evaluation.Remarks)
	log.Info("resume evaluated", zap.Int("score", result.ScoreValue()))
	return result
}

func (e *evaluatorService) DraftEmails(ctx context.Context, results []models.CandidateResult, role string) (*models.Emails, error) {
	if len(results) == 0 || results[0].Failed() {
		return nil, nil
	}
	if strings.TrimSpace(role) == "" {
		role = models.JobDetails{}.Role()
	}

	top := results[0]
	interview, err := e.llmClient.GenerateInterviewEmail(ctx, top.CandidateName(), role)
	if err != nil {
		return nil, fmt.Errorf("failed to draft interview email: %w", err)
	}

	emails := &models.Emails{Interview: interview}
	emails.Rejection, err = e.llmClient.GenerateRejectionEmail(ctx, RejectionRecipient, role)
	if err != nil {
		return emails, fmt.Errorf("failed to draft rejection email: %w", err)
	}
	return emails, nil
}
