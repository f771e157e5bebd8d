package handlers

import (
	"strconv"

	"alfredoptarigan/resume-ranker/internal/models"
)

// evaluationOutcome is everything one evaluation request produced.
type evaluationOutcome struct {
	Results    []models.CandidateResult
	Emails     *models.Emails
	EmailError string
}

func (o evaluationOutcome) response() models.EvaluateResponse {
	resp := models.EvaluateResponse{
		Results:    o.Results,
		EmailError: o.EmailError,
	}
	if resp.Results == nil {
		resp.Results = []models.CandidateResult{}
	}
	if o.Emails != nil {
		resp.InterviewEmail = o.Emails.Interview
		resp.RejectionEmail = o.Emails.Rejection
	}
	return resp
}

type resultRow struct {
	Rank          int
	Filename      string
	Score         string
	MissingSkills []string
	Remarks       string
	Error         string
}

// pageData feeds views/index.html.
type pageData struct {
	Title          string
	Provider       string
	Model          string
	Error          string
	Form           formEcho
	Results        []resultRow
	InterviewEmail string
	RejectionEmail string
	EmailError     string
	Accept         string
}

// formEcho re-fills the text inputs after a submission.
type formEcho struct {
	JDText  string
	Details models.JobDetails
}

func newPageData(provider, model string) pageData {
	return pageData{
		Title:    "Resume Ranker",
		Provider: provider,
		Model:    model,
		Accept:   acceptedExtensions(),
	}
}

func (p *pageData) setOutcome(o evaluationOutcome) {
	p.Results = make([]resultRow, 0, len(o.Results))
	for i, r := range o.Results {
		row := resultRow{
			Rank:          i + 1,
			Filename:      r.Filename,
			MissingSkills: r.MissingSkills,
			Remarks:       r.Remarks,
			Error:         r.Error,
		}
		if r.Score != nil {
			row.Score = strconv.Itoa(*r.Score)
		}
		p.Results = append(p.Results, row)
	}

	if o.Emails != nil {
		p.InterviewEmail = o.Emails.Interview
		p.RejectionEmail = o.Emails.Rejection
	}
	p.EmailError = o.EmailError
}
