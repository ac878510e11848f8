package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// wordText extracts the textual runs of a wordprocessingml container.
// Paragraphs and table cells are kept as lines; everything else (styles,
// images, embedded objects) is discarded.
func wordText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse docx: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(it.String())
		case *docx.Table:
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(it.String())
		}
	}
	return b.String(), nil
}
