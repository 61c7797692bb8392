package extract

import (
	"context"
	"fmt"
	"os"
)

// TextExtractor reads plain-text and markdown files as-is.
type TextExtractor struct{}

// Extract returns the file contents.
func (e *TextExtractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}

var _ Extractor = (*TextExtractor)(nil)
