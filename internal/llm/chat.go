package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/prompts"
)

const (
	defaultTimeout       = 60 * time.Second
	defaultRetryInterval = time.Second
	maxRetryInterval     = 10 * time.Second
	maxLogLength         = 200
)

type completionRequest struct {
	System      string
	User        string
	JSON        bool
	Temperature float32
}

// completer issues one chat completion against a provider.
type completer interface {
	complete(ctx context.Context, req completionRequest) (string, error)
}

type chatClient struct {
	backend       completer
	prompts       *prompts.Store
	logger        *zap.Logger
	provider      Provider
	model         string
	temperature   float32
	timeout       time.Duration
	maxAttempts   int
	retryInterval time.Duration
}

func newChatClient(cfg Config, backend completer, store *prompts.Store, log *zap.Logger) *chatClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	return &chatClient{
		backend:       backend,
		prompts:       store,
		logger:        logger.WithCommonFields(log, string(cfg.Provider), cfg.Model),
		provider:      cfg.Provider,
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		timeout:       timeout,
		maxAttempts:   attempts,
		retryInterval: interval,
	}
}

func (c *chatClient) Provider() Provider {
	return c.provider
}

func (c *chatClient) Model() string {
	return c.model
}

// EvaluateResume implements Client.
func (c *chatClient) EvaluateResume(ctx context.Context, jdText, resumeText string) (*Evaluation, error) {
	prompt, err := c.prompts.Render(PromptResumeEvaluation, map[string]string{
		"jd_text":     jdText,
		"resume_text": resumeText,
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.chat(ctx, PromptResumeEvaluation, prompt, true)
	if err != nil {
		return nil, err
	}

	evaluation, err := parseEvaluation(raw)
	if err != nil {
		c.logger.Warn("unparseable evaluation response",
			zap.Error(err),
			zap.String("response_preview", logger.TruncateForLog(raw, maxLogLength)),
		)
		return nil, err
	}

	return evaluation, nil
}

// GenerateJobDescription implements Client.
func (c *chatClient) GenerateJobDescription(ctx context.Context, details models.JobDetails) (string, error) {
	prompt, err := c.prompts.Render(PromptJDGeneration, details.Variables())
	if err != nil {
		return "", err
	}
	return c.chat(ctx, PromptJDGeneration, prompt, false)
}

// GenerateInterviewEmail implements Client.
func (c *chatClient) GenerateInterviewEmail(ctx context.Context, candidateName, role string) (string, error) {
	return c.email(ctx, PromptInterviewEmail, candidateName, role)
}

// GenerateRejectionEmail implements Client.
func (c *chatClient) GenerateRejectionEmail(ctx context.Context, candidateName, role string) (string, error) {
	return c.email(ctx, PromptRejectionEmail, candidateName, role)
}

func (c *chatClient) email(ctx context.Context, name, candidateName, role string) (string, error) {
	prompt, err := c.prompts.Render(name, map[string]string{
		"candidate_name": candidateName,
		"role":           role,
	})
	if err != nil {
		return "", err
	}
	return c.chat(ctx, name, prompt, false)
}

// chat sends the rendered prompt, retrying transient provider failures up to
// maxAttempts with exponential backoff. Every returned error wraps ErrProvider.
func (c *chatClient) chat(ctx context.Context, op string, prompt prompts.Prompt, jsonMode bool) (string, error) {
	req := completionRequest{
		System:      prompt.System,
		User:        prompt.User,
		JSON:        jsonMode,
		Temperature: c.temperature,
	}

	c.logger.Debug("llm request",
		zap.String("prompt", op),
		zap.Bool("json", jsonMode),
		zap.Int("prompt_length", utf8.RuneCountInString(req.System)+utf8.RuneCountInString(req.User)),
		zap.String("prompt_preview", logger.TruncateForLog(req.User, maxLogLength)),
	)

	attempt := 0
	operation := func() (string, error) {
		attempt++
		text, err := c.completeOnce(ctx, req)
		if err == nil {
			return text, nil
		}

		c.logger.Warn("llm request failed",
			zap.String("prompt", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Error(err),
		)
		if ctx.Err() != nil || !isRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxInterval = maxRetryInterval

	text, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	c.logger.Debug("llm response",
		zap.String("prompt", op),
		zap.Int("attempt", attempt),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logger.TruncateForLog(text, maxLogLength)),
	)
	return text, nil
}

func (c *chatClient) completeOnce(ctx context.Context, req completionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.backend.complete(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}
