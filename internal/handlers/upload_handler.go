package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
)

// Multipart field names of the evaluation form.
const (
	FieldResumeFiles = "resume_files"
	FieldJDFile      = "jd_file"
	FieldJDText      = "jd_text"
)

// EvaluateForm is the parsed evaluation request.
type EvaluateForm struct {
	Resumes []models.Upload
	JDFile  *models.Upload
	JDText  string
	Details models.JobDetails
}

// Source picks the job description source by precedence.
func (f *EvaluateForm) Source() models.JobDescriptionSource {
	return models.NewJobDescriptionSource(f.JDFile, f.JDText, f.Details)
}

// UploadParser reads the multipart evaluation form and enforces the per-file
// size limit.
type UploadParser struct {
	maxFileSize int64
}

func NewUploadParser(maxFileSize int64) *UploadParser {
	return &UploadParser{
		maxFileSize: maxFileSize,
	}
}

// Parse returns a *fiber.Error with status 400 for any client mistake.
func (p *UploadParser) Parse(c *fiber.Ctx) (*EvaluateForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	result := &EvaluateForm{
		JDText: formValue(form, FieldJDText),
		Details: models.JobDetails{
			JobTitle:       formValue(form, "job_title"),
			Experience:     formValue(form, "experience"),
			Skills:         formValue(form, "skills"),
			CompanyName:    formValue(form, "company_name"),
			EmploymentType: formValue(form, "employment_type"),
			Industry:       formValue(form, "industry"),
			Location:       formValue(form, "location"),
		},
	}

	// Process the resume files
	for _, fileHeader := range form.File[FieldResumeFiles] {
		if fileHeader.Filename == "" {
			continue
		}
		upload, err := p.read(fileHeader, "Resume")
		if err != nil {
			return nil, err
		}
		result.Resumes = append(result.Resumes, *upload)
	}

	if len(result.Resumes) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("No resume files uploaded. Please upload one or more files as '%s'.", FieldResumeFiles))
	}

	// Process the optional job description file
	if jdFiles := form.File[FieldJDFile]; len(jdFiles) > 0 && jdFiles[0].Filename != "" {
		upload, err := p.read(jdFiles[0], "Job description")
		if err != nil {
			return nil, err
		}
		result.JDFile = upload
	}

	return result, nil
}

func (p *UploadParser) read(fileHeader *multipart.FileHeader, label string) (*models.Upload, error) {
	if p.maxFileSize > 0 && fileHeader.Size > p.maxFileSize {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s file %s too large. Max size: %d bytes", label, fileHeader.Filename, p.maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &models.Upload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
