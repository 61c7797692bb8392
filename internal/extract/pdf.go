package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFExtractor extracts text from PDF files using pdfcpu.
//
// pdfcpu exposes page content streams rather than decoded text, so the
// extractor dumps content to a temp directory and scans the streams for
// text-show operators (Tj/TJ string operands).
type PDFExtractor struct{}

// Extract returns the concatenated text of all pages.
func (e *PDFExtractor) Extract(_ context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "taskmill-pdf-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractContentFile(path, tmpDir, nil, nil); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted content: %w", err)
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("failed to read content stream %s: %w", entry.Name(), err)
		}
		page := scanTextOperands(string(data))
		if page == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page)
	}

	return b.String(), nil
}

// scanTextOperands collects the string operands of Tj/TJ text-show operators
// from a PDF content stream. Literal strings are parenthesized with
// backslash escapes; nesting tracked via unescaped parens.
func scanTextOperands(stream string) string {
	var out strings.Builder
	var current strings.Builder

	depth := 0
	escaped := false

	for i := 0; i < len(stream); i++ {
		c := stream[i]

		if depth == 0 {
			if c == '(' {
				depth = 1
			}
			continue
		}

		if escaped {
			switch c {
			case 'n', 'r', 't':
				current.WriteByte(' ')
			case '(', ')', '\\':
				current.WriteByte(c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			current.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				if s := current.String(); strings.TrimSpace(s) != "" {
					out.WriteString(s)
					out.WriteByte(' ')
				}
				current.Reset()
			} else {
				current.WriteByte(c)
			}
		default:
			current.WriteByte(c)
		}
	}

	return strings.TrimSpace(out.String())
}

var _ Extractor = (*PDFExtractor)(nil)
