package models

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
)

// CandidateResult is the outcome of evaluating one resume. Exactly one of
// the success fields or Error is meaningful.
type CandidateResult struct {
	Filename      string
	Score         *int
	MissingSkills []string
	Remarks       string
	Error         string
}

func NewCandidateResult(filename string, score *int, missingSkills []string, remarks string) CandidateResult {
	if missingSkills == nil {
		missingSkills = []string{}
	}
	return CandidateResult{
		Filename:      filename,
		Score:         score,
		MissingSkills: missingSkills,
		Remarks:       remarks,
	}
}

func NewFailedResult(filename string, err error) CandidateResult {
	return CandidateResult{Filename: filename, Error: err.Error()}
}

func (r CandidateResult) Failed() bool {
	return r.Error != ""
}

// ScoreValue returns the score, treating a missing one as 0.
func (r CandidateResult) ScoreValue() int {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// CandidateName derives a display name from the base filename without its extension.
func (r CandidateResult) CandidateName() string {
	base := filepath.Base(strings.ReplaceAll(r.Filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type successJSON struct {
	Filename      string   `json:"filename"`
	Score         *int     `json:"score,omitempty"`
	MissingSkills []string `json:"missing_skills"`
	Remarks       string   `json:"remarks"`
}

type failureJSON struct {
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error"`
}

func (r CandidateResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(failureJSON{Filename: r.Filename, Error: r.Error})
	}

	skills := r.MissingSkills
	if skills == nil {
		skills = []string{}
	}
	return json.Marshal(successJSON{
		Filename:      r.Filename,
		Score:         r.Score,
		MissingSkills: skills,
		Remarks:       r.Remarks,
	})
}

// RankCandidates sorts results by descending score in place. Equal scores
// keep their submission order.
func RankCandidates(results []CandidateResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ScoreValue() > results[j].ScoreValue()
	})
}

// Emails are the messages drafted for the top-ranked candidate.
type Emails struct {
	Interview string `json:"interview_email"`
	Rejection string `json:"rejection_email"`
}
