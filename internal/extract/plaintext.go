package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyFile         = errors.New("file contains no extractable text")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

var textExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".text": {}, ".log": {}, ".csv": {},
}

// PlainTextExtractor handles the text-like formats directly. Anything else is
// refused up front rather than producing garbage downstream.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) Extract(_ context.Context, filename string, content []byte) (TextExtractionResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := textExtensions[ext]; !ok && ext != "" {
		return TextExtractionResult{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	var warnings []string
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "�"))
		warnings = append(warnings, "invalid UTF-8 sequences replaced")
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return TextExtractionResult{}, ErrEmptyFile
	}

	return TextExtractionResult{
		Text:       text,
		SourceType: "TEXT",
		Method:     "plain-text",
		Warnings:   warnings,
	}, nil
}
