package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/prompts"
)

const chatTestPrompts = `
resume_evaluation:
  system: "Score resumes."
  user: "JD: {jd_text} | CV: {resume_text}"
jd_generation:
  system: "Write JDs."
  user: "Title: {job_title}; Skills: {skills}; Location: {location}"
interview_email: "Invite {candidate_name} to interview for {role}."
rejection_email:
  system: "Write emails."
  user: "Reject {candidate_name} for {role}."
`

type fakeResponse struct {
	text string
	err  error
}

type fakeCompleter struct {
	mu        sync.Mutex
	responses []fakeResponse
	requests  []completionRequest
	block     bool
}

func (f *fakeCompleter) complete(ctx context.Context, req completionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var resp fakeResponse
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}
	block := f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return resp.text, resp.err
}

func newTestClient(t *testing.T, backend completer, cfg Config) *chatClient {
	t.Helper()
	store, err := prompts.Parse([]byte(chatTestPrompts), "test.yaml")
	require.NoError(t, err)
	if cfg.Provider == "" {
		cfg.Provider = ProviderGroq
	}
	if cfg.Model == "" {
		cfg.Model = "test-model"
	}
	return newChatClient(cfg, backend, store, zap.NewNop())
}

func TestEvaluateResume(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{
		{text: `{"score": 90, "missing_skills": [], "remarks": "Strong match"}`},
	}}
	client := newTestClient(t, backend, Config{Temperature: 0.2})

	evaluation, err := client.EvaluateResume(context.Background(), "Go engineer", "10 years Go")
	require.NoError(t, err)
	require.NotNil(t, evaluation.Score)
	assert.Equal(t, 90, *evaluation.Score)
	assert.Empty(t, evaluation.MissingSkills)
	assert.Equal(t, "Strong match", evaluation.Remarks)

	require.Len(t, backend.requests, 1)
	req := backend.requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, "Score resumes.", req.System)
	assert.Equal(t, "JD: Go engineer | CV: 10 years Go", req.User)
	assert.InDelta(t, 0.2, req.Temperature, 0.0001)
}

func TestEvaluateResume_MalformedJSON(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{text: "The candidate looks good!"}}}
	client := newTestClient(t, backend, Config{})

	_, err := client.EvaluateResume(context.Background(), "jd", "cv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestEvaluateResume_ProviderFailure(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{err: errors.New("401 invalid api key")}}}
	client := newTestClient(t, backend, Config{})

	evaluation, err := client.EvaluateResume(context.Background(), "jd", "cv")
	require.Error(t, err)
	assert.Nil(t, evaluation)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChat_RetriesUntilSuccess(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{
		{err: errors.New("503 unavailable")},
		{text: "   "},
		{text: "Dear Jane"},
	}}
	client := newTestClient(t, backend, Config{MaxAttempts: 3, RetryInterval: time.Millisecond})

	email, err := client.GenerateInterviewEmail(context.Background(), "Jane", "SRE")
	require.NoError(t, err)
	assert.Equal(t, "Dear Jane", email)
	assert.Len(t, backend.requests, 3)
}

func TestChat_StopsAfterMaxAttempts(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{
		{err: errors.New("rate limited")},
		{err: errors.New("rate limited")},
		{text: "never reached"},
	}}
	client := newTestClient(t, backend, Config{MaxAttempts: 2, RetryInterval: time.Millisecond})

	_, err := client.GenerateRejectionEmail(context.Background(), "Candidate", "SRE")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Len(t, backend.requests, 2)
}

func TestChat_ClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "unauthorized", err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "invalid api key"}},
		{name: "bad request", err: &openai.RequestError{HTTPStatusCode: http.StatusBadRequest, Err: errors.New("bad request")}},
		{name: "gemini not found", err: genai.APIError{Code: http.StatusNotFound, Status: "NOT_FOUND"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeCompleter{responses: []fakeResponse{
				{err: fmt.Errorf("chat completion: %w", tt.err)},
				{text: "never reached"},
			}}
			client := newTestClient(t, backend, Config{MaxAttempts: 3, RetryInterval: time.Millisecond})

			_, err := client.GenerateInterviewEmail(context.Background(), "Jane", "SRE")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProvider)
			assert.Len(t, backend.requests, 1)
		})
	}
}

func TestChat_RateLimitIsRetried(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{
		{err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}},
		{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
		{text: "Dear Jane"},
	}}
	client := newTestClient(t, backend, Config{MaxAttempts: 3, RetryInterval: time.Millisecond})

	email, err := client.GenerateInterviewEmail(context.Background(), "Jane", "SRE")
	require.NoError(t, err)
	assert.Equal(t, "Dear Jane", email)
	assert.Len(t, backend.requests, 3)
}

func TestChat_ZeroTemperatureIsKept(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{text: "Dear Jane"}}}
	client := newTestClient(t, backend, Config{Temperature: 0})

	_, err := client.GenerateInterviewEmail(context.Background(), "Jane", "SRE")
	require.NoError(t, err)
	require.Len(t, backend.requests, 1)
	assert.Zero(t, backend.requests[0].Temperature)
}

func TestEvaluateResume_NullReply(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{text: "```json\nnull\n```"}}}
	client := newTestClient(t, backend, Config{})

	evaluation, err := client.EvaluateResume(context.Background(), "jd", "cv")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Nil(t, evaluation)
}

func TestChat_TimeoutIsProviderError(t *testing.T) {
	backend := &fakeCompleter{block: true}
	client := newTestClient(t, backend, Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := client.EvaluateResume(context.Background(), "jd", "cv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestChat_CancelledContextDoesNotRetry(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{err: context.Canceled}}}
	client := newTestClient(t, backend, Config{MaxAttempts: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateInterviewEmail(ctx, "Jane", "SRE")
	require.Error(t, err)
	assert.Len(t, backend.requests, 1)
}

func TestGenerateJobDescription(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{text: "We are hiring a Backend Engineer."}}}
	client := newTestClient(t, backend, Config{})

	jd, err := client.GenerateJobDescription(context.Background(), models.JobDetails{
		JobTitle: "Backend Engineer",
		Skills:   "Python",
	})
	require.NoError(t, err)
	assert.Equal(t, "We are hiring a Backend Engineer.", jd)

	require.Len(t, backend.requests, 1)
	assert.False(t, backend.requests[0].JSON)
	assert.Equal(t, "Title: Backend Engineer; Skills: Python; Location: ", backend.requests[0].User)
}

func TestSingleStringTemplateHasNoSystemMessage(t *testing.T) {
	backend := &fakeCompleter{responses: []fakeResponse{{text: "Hi"}}}
	client := newTestClient(t, backend, Config{})

	_, err := client.GenerateInterviewEmail(context.Background(), "jane", "SRE")
	require.NoError(t, err)
	assert.Empty(t, backend.requests[0].System)
	assert.Equal(t, "Invite jane to interview for SRE.", backend.requests[0].User)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" Groq ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, p)

	_, err = ParseProvider("anthropic")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNew_Validation(t *testing.T) {
	store, err := prompts.Parse([]byte(chatTestPrompts), "test.yaml")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = New(ctx, Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}, store, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(ctx, Config{Provider: "mistral", Model: "m", APIKey: "k"}, store, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = New(ctx, Config{Provider: ProviderOpenAI, APIKey: "k"}, store, zap.NewNop())
	assert.Error(t, err)

	client, err := New(ctx, Config{Provider: ProviderGroq, Model: "llama", APIKey: "k"}, store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, client.Provider())
	assert.Equal(t, "llama", client.Model())
}
