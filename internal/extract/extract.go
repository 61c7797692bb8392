// Package extract pulls plain text out of supported document formats.
// Extractors are interface-bound collaborators selected by file extension;
// the ingestion layer treats any failure as a skippable, per-file event.
package extract

import (
	"context"
	"path/filepath"
	"strings"
)

// Extractor extracts the text content of a single document.
type Extractor interface {
	// Extract returns the document's text. Implementations return an error
	// only for unreadable or malformed inputs; an empty string with nil
	// error means the document genuinely has no text.
	Extract(ctx context.Context, path string) (string, error)
}

// registry maps lower-cased file extensions to their extractor.
var registry = map[string]Extractor{
	".pdf":  &PDFExtractor{},
	".docx": &DocxExtractor{},
	".txt":  &TextExtractor{},
	".md":   &TextExtractor{},
}

// ForPath returns the extractor responsible for the file's extension.
func ForPath(path string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := registry[ext]
	return e, ok
}

// Supported reports whether the file's extension has a registered extractor.
func Supported(path string) bool {
	_, ok := ForPath(path)
	return ok
}
