package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls the plain-text layer out of a PDF held in memory,
// capped for prompt size. Scanned PDFs with no text layer return an
// empty string.
func ExtractText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	totalPages := r.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
		if sb.Len() > maxPromptText {
			break
		}
	}

	result := sb.String()
	if len(result) > maxPromptText {
		result = result[:maxPromptText]
	}
	return result, nil
}
