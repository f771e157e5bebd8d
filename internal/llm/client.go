// Package llm wraps chat-completion providers behind a single client used to
// score resumes and draft recruiting text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/prompts"
)

var (
	ErrProvider          = errors.New("llm provider request failed")
	ErrMalformedResponse = errors.New("malformed llm response")
	ErrUnknownProvider   = errors.New("unknown llm provider")
	ErrMissingAPIKey     = errors.New("llm api key is required")
)

// Prompt template names used by the client.
const (
	PromptResumeEvaluation = "resume_evaluation"
	PromptJDGeneration     = "jd_generation"
	PromptInterviewEmail   = "interview_email"
	PromptRejectionEmail   = "rejection_email"
)

// Evaluation is the parsed result of scoring one resume.
type Evaluation struct {
	Score         *int
	MissingSkills []string
	Remarks       string
}

// Client is the capability set every provider offers.
type Client interface {
	EvaluateResume(ctx context.Context, jdText, resumeText string) (*Evaluation, error)
	GenerateJobDescription(ctx context.Context, details models.JobDetails) (string, error)
	GenerateInterviewEmail(ctx context.Context, candidateName, role string) (string, error)
	GenerateRejectionEmail(ctx context.Context, candidateName, role string) (string, error)
	Provider() Provider
	Model() string
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderOpenAI, ProviderGroq, ProviderGemini}

func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	Temperature float32
	// Timeout bounds a single completion attempt.
	Timeout     time.Duration
	MaxAttempts int
	// RetryInterval is the first backoff delay between attempts.
	RetryInterval time.Duration
	// BaseURL overrides the provider endpoint (OpenAI-compatible providers only).
	BaseURL string
}

// New builds the client for cfg.Provider.
func New(ctx context.Context, cfg Config, store *prompts.Store, logger *zap.Logger) (Client, error) {
	if store == nil {
		return nil, errors.New("prompt store is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, cfg.Provider)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required for provider %s", cfg.Provider)
	}

	var (
		backend completer
		err     error
	)

	switch cfg.Provider {
	case ProviderOpenAI:
		backend = newOpenAICompleter(cfg, "")
	case ProviderGroq:
		backend = newOpenAICompleter(cfg, groqBaseURL)
	case ProviderGemini:
		backend, err = newGeminiCompleter(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return newChatClient(cfg, backend, store, logger), nil
}
