package extract

import "context"

// TextExtractor is the first hop at admission: uploaded bytes in, plain text
// out. Implementations decide per media type; the rest of the system only
// ever sees the extracted text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, content []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	SourceType string // "TEXT" today; "PDF" and "DOCX" once those extractors land
	Method     string
	Warnings   []string
}
