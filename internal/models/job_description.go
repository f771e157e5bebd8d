package models

import (
	"errors"
	"strings"
)

// NoJobDescriptionMessage is the user-facing text of ErrNoJobDescription.
const NoJobDescriptionMessage = "No valid job description source provided."

var ErrNoJobDescription = errors.New(NoJobDescriptionMessage)

// Upload is a single submitted file.
type Upload struct {
	Filename string
	Data     []byte
}

// JobDetails are the optional fields used to generate a job description.
type JobDetails struct {
	JobTitle       string `json:"job_title" form:"job_title"`
	Experience     string `json:"experience" form:"experience"`
	Skills         string `json:"skills" form:"skills"`
	CompanyName    string `json:"company_name" form:"company_name"`
	EmploymentType string `json:"employment_type" form:"employment_type"`
	Industry       string `json:"industry" form:"industry"`
	Location       string `json:"location" form:"location"`
}

// Variables returns the details keyed by their placeholder names.
func (d JobDetails) Variables() map[string]string {
	return map[string]string{
		"job_title":       d.JobTitle,
		"experience":      d.Experience,
		"skills":          d.Skills,
		"company_name":    d.CompanyName,
		"employment_type": d.EmploymentType,
		"industry":        d.Industry,
		"location":        d.Location,
	}
}

func (d JobDetails) IsEmpty() bool {
	for _, v := range d.Variables() {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Role is the job title used in candidate emails.
func (d JobDetails) Role() string {
	if title := strings.TrimSpace(d.JobTitle); title != "" {
		return title
	}
	return "the position"
}

// JobDescriptionSource is one of UploadedFile, FreeText or GenerationRequest.
type JobDescriptionSource interface {
	isJobDescriptionSource()
}

type UploadedFile struct {
	Upload
}

type FreeText struct {
	Text string
}

type GenerationRequest struct {
	Details JobDetails
}

func (UploadedFile) isJobDescriptionSource()      {}
func (FreeText) isJobDescriptionSource()          {}
func (GenerationRequest) isJobDescriptionSource() {}

// NewJobDescriptionSource picks a single source from the submitted form
// values: an uploaded file wins over free text, which wins over generation
// details. It returns nil when nothing was supplied.
func NewJobDescriptionSource(file *Upload, text string, details JobDetails) JobDescriptionSource {
	if file != nil && strings.TrimSpace(file.Filename) != "" {
		return UploadedFile{Upload: *file}
	}
	if strings.TrimSpace(text) != "" {
		return FreeText{Text: text}
	}
	if !details.IsEmpty() {
		return GenerationRequest{Details: details}
	}
	return nil
}
