package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/wudi/pdfkit/extractor"
	"github.com/wudi/pdfkit/ir"
)

// pdfText concatenates the text of every page in page order. Pages without
// extractable text contribute nothing; an entirely textless document yields
// an empty string, not an error.
func pdfText(ctx context.Context, data []byte) (string, error) {
	pipe := ir.NewDefault()
	doc, err := pipe.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: parse pdf: %v", ErrExtractionFailed, err)
	}

	dec := doc.Decoded()
	if dec == nil {
		return "", fmt.Errorf("%w: pdf pipeline produced no decoded document", ErrExtractionFailed)
	}

	ext, err := extractor.New(dec)
	if err != nil {
		return "", fmt.Errorf("%w: init pdf extractor: %v", ErrExtractionFailed, err)
	}

	pages, err := ext.ExtractText()
	if err != nil {
		return "", fmt.Errorf("%w: extract pdf text: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for _, page := range pages {
		if page.Content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page.Content)
	}
	return b.String(), nil
}
