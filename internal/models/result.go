package models

import "time"

// EvaluateResponse is the JSON body returned by POST /api/v1/evaluate.
type EvaluateResponse struct {
	Results        []CandidateResult `json:"results"`
	InterviewEmail string            `json:"interview_email,omitempty"`
	RejectionEmail string            `json:"rejection_email,omitempty"`
	EmailError     string            `json:"email_error,omitempty"`
}

type HealthResponse struct {
	Status   string    `json:"status"`
	Time     time.Time `json:"time"`
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
