package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"code.sajari.com/docconv"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"
)

var (
	ErrExtraction        = errors.New("text extraction failed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// SupportedExtensions lists the file types the extractor understands.
var SupportedExtensions = []string{".pdf", ".docx", ".html", ".htm", ".txt", ".md"}

type DocumentExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

type documentExtractor struct {
	storage StorageService
	timeout time.Duration
	logger  *zap.Logger
}

func NewDocumentExtractor(storage StorageService, timeout time.Duration, logger *zap.Logger) DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentExtractor{
		storage: storage,
		timeout: timeout,
		logger:  logger,
	}
}

type extractionResult struct {
	text string
	err  error
}

// Extract returns the plain text of an uploaded document. Every failure
// wraps ErrExtraction.
func (e *documentExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !isSupported(ext) {
		return "", fmt.Errorf("%w: %w %q", ErrExtraction, ErrUnsupportedFormat, ext)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrExtraction, filename)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := make(chan extractionResult, 1)
	go func() {
		defer func() {
			// The PDF and DOCX readers panic on some corrupt inputs
			if r := recover(); r != nil {
				done <- extractionResult{err: fmt.Errorf("corrupt document: %v", r)}
			}
		}()
		text, err := e.extract(ctx, ext, filename, data)
		done <- extractionResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		e.logger.Warn("document extraction aborted",
			zap.String("filename", filename),
			zap.Error(ctx.Err()),
		)
		return "", fmt.Errorf("%w: %s: %w", ErrExtraction, filename, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrExtraction, filename, res.err)
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", fmt.Errorf("%w: %s contains no text", ErrExtraction, filename)
		}
		e.logger.Debug("document extracted",
			zap.String("filename", filename),
			zap.Int("text_length", utf8.RuneCountInString(text)),
		)
		return text, nil
	}
}

// extract dispatches on the extension. Binary formats are parsed from a
// scoped temp file that is gone by the time extract returns.
func (e *documentExtractor) extract(ctx context.Context, ext, filename string, data []byte) (string, error) {
	switch ext {
	case ".pdf":
		return e.fromTempFile(ctx, filename, data, extractPDFText)
	case ".docx":
		return e.fromTempFile(ctx, filename, data, extractDocxText)
	case ".html", ".htm":
		return htmltomarkdown.ConvertString(decodeText(data))
	default:
		return decodeText(data), nil
	}
}

func (e *documentExtractor) fromTempFile(ctx context.Context, filename string, data []byte, read func(ctx context.Context, path string) (string, error)) (string, error) {
	var text string
	err := e.storage.WithTempFile(filename, data, func(path string) error {
		var err error
		text, err = read(ctx, path)
		return err
	})
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

func isSupported(ext string) bool {
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func decodeText(data []byte) string {
	text := strings.TrimPrefix(string(data), "\ufeff")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	return text
}

// extractDocxText converts the .docx at filePath. The conversion itself
// cannot be interrupted, so ctx is only checked before it starts.
func extractDocxText(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.ConvertPath(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to convert docx: %w", err)
	}
	return res.Body, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	var b strings.Builder
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
