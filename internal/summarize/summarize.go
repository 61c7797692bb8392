// Package summarize condenses content chunks before task synthesis.
// The summarizer is an external collaborator: callers fall back to the
// original chunk whenever it fails, so nothing here is fatal to a run.
package summarize

import "context"

// Summarizer condenses a content chunk.
type Summarizer interface {
	// Summarize returns a condensed version of chunk. On error callers use
	// the original chunk unchanged.
	Summarize(ctx context.Context, chunk string) (string, error)
}

// Noop passes chunks through unchanged. Used when summarization is disabled.
type Noop struct{}

// Summarize returns the chunk as-is.
func (Noop) Summarize(_ context.Context, chunk string) (string, error) {
	return chunk, nil
}

var _ Summarizer = Noop{}
