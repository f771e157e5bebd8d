package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var errNoPDFText = errors.New("no text content found in PDF")

// extractPDFText reads the plain text of the PDF at filePath. The context is
// checked between pages so an abandoned extraction stops early.
func extractPDFText(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return readPages(ctx, r.NumPage(), func(n int) (string, error) {
		page := r.Page(n)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
}

// readPages joins the text of pages 1..count. Pages that fail to decode are
// skipped.
func readPages(ctx context.Context, count int, pageText func(n int) (string, error)) (string, error) {
	var b strings.Builder
	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("stopped at page %d of %d: %w", n, count, err)
		}

		text, err := pageText(n)
		if err != nil || text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", errNoPDFText
	}
	return b.String(), nil
}
