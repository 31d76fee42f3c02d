// Package extract pulls plain text out of uploaded learning material.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedType = errors.New("unsupported file type")

const (
	TypePDF  = "pdf"
	TypeText = "text"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// FileType classifies a filename by extension, or returns "" when unsupported.
func FileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return TypePDF
	case ".txt", ".md", ".markdown":
		return TypeText
	default:
		return ""
	}
}

func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	switch FileType(filename) {
	case TypePDF:
		return extractPDF(content)
	case TypeText:
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%s is not valid UTF-8 text", filename)
		}
		return strings.TrimSpace(string(content)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
}

// extractPDF turns parser panics on malformed input into errors.
func extractPDF(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
