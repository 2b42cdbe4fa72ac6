package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// ExtractPDFText pulls plain text out of a PDF, one block per page, each
// prefixed with its page marker so retrieval answers can cite pages.
// Returns the joined text and the document's page count.
func ExtractPDFText(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", entity.ErrProcessing, err)
	}

	pageCount := reader.NumPage()
	var blocks []string
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the upload.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Page %d]\n%s", i, text))
	}

	full := strings.Join(blocks, "\n\n")
	if strings.TrimSpace(full) == "" {
		return "", pageCount, fmt.Errorf("%w: the PDF might be image-based", entity.ErrNoExtractableText)
	}
	return full, pageCount, nil
}
