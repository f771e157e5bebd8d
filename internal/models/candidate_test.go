package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(name string, score int) CandidateResult {
	return NewCandidateResult(name, &score, nil, "")
}

func filenames(results []CandidateResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Filename)
	}
	return names
}

func TestRankCandidates_Stable(t *testing.T) {
	results := []CandidateResult{
		scored("A", 50),
		scored("B", 80),
		scored("C", 80),
		scored("D", 10),
	}

	RankCandidates(results)

	assert.Equal(t, []string{"B", "C", "A", "D"}, filenames(results))
}

func TestRankCandidates_MissingScoreSortsAsZero(t *testing.T) {
	results := []CandidateResult{
		NewFailedResult("broken.pdf", errors.New("boom")),
		scored("low.pdf", 0),
		NewCandidateResult("noscore.pdf", nil, nil, "no score returned"),
		scored("high.pdf", 75),
	}

	assert.NotPanics(t, func() { RankCandidates(results) })
	assert.Equal(t, []string{"high.pdf", "broken.pdf", "low.pdf", "noscore.pdf"}, filenames(results))
}

func TestCandidateResult_MarshalJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		data, err := json.Marshal(scored("jane.pdf", 90))
		require.NoError(t, err)
		assert.JSONEq(t, `{"filename":"jane.pdf","score":90,"missing_skills":[],"remarks":""}`, string(data))
	})

	t.Run("failure has no score", func(t *testing.T) {
		data, err := json.Marshal(NewFailedResult("bad.pdf", errors.New("failed to extract")))
		require.NoError(t, err)
		assert.JSONEq(t, `{"filename":"bad.pdf","error":"failed to extract"}`, string(data))
	})

	t.Run("batch error", func(t *testing.T) {
		data, err := json.Marshal(NewFailedResult("", ErrNoJobDescription))
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"No valid job description source provided."}`, string(data))
	})
}

func TestCandidateName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"jane_doe.pdf", "jane_doe"},
		{"john.smith.docx", "john.smith"},
		{"uploads/alex.pdf", "alex"},
		{`C:\resumes\sam.pdf`, "sam"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateResult{Filename: tt.filename}.CandidateName())
		})
	}
}
