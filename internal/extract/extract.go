package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Package extract converts stored document payloads into plain text. The
// backend is chosen from the declared media type alone; the bytes are never
// sniffed. Extraction is best-effort raw text: formatting, images, and
// tables are discarded.

// ErrExtractionFailed marks a payload that matched a supported media type but
// could not be processed by its backend (e.g. a truncated PDF).
var ErrExtractionFailed = errors.New("extraction failed")

// UnsupportedFormatError is returned when the declared media type has no
// extraction backend.
type UnsupportedFormatError struct {
	MediaType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("media type %q is not supported for text conversion", e.MediaType)
}

// Text extracts plain text from data according to its declared media type.
// Dispatch precedence: word-processing documents, then PDF, then the
// plain-text family; anything else yields *UnsupportedFormatError.
//
// Identical inputs always yield identical output. The call is synchronous
// and holds no shared state, so concurrent extractions do not affect each
// other.
func Text(ctx context.Context, data []byte, mediaType string) (string, error) {
	switch {
	case strings.Contains(mediaType, "wordprocessingml"):
		return wordText(data)
	case strings.Contains(mediaType, "pdf"):
		return pdfText(ctx, data)
	case strings.HasPrefix(mediaType, "text/"):
		// Verbatim passthrough: the stored bytes are the text.
		return string(data), nil
	default:
		return "", &UnsupportedFormatError{MediaType: mediaType}
	}
}
