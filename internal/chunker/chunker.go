// Package chunker splits raw document text into bounded-size pieces.
package chunker

import "strings"

// Chunk splits text into pieces of at most maxChars characters.
//
// Text is split on paragraph boundaries (blank-line separated blocks). A
// paragraph longer than maxChars is further split on sentence boundaries
// (period plus space) and greedily packed: sentences accumulate into the
// current piece while the running length stays within the limit, otherwise
// the piece is flushed and a new one starts with the current sentence.
// Chunks never merge across paragraph boundaries and follow source order.
func Chunk(text string, maxChars int) []string {
	var chunks []string

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) <= maxChars {
			chunks = append(chunks, para)
			continue
		}

		chunks = append(chunks, packSentences(para, maxChars)...)
	}

	return chunks
}

// packSentences splits an oversized paragraph on ". " boundaries and packs
// the sentences greedily into chunks of at most maxChars characters. The
// final partial chunk is always flushed.
func packSentences(para string, maxChars int) []string {
	var chunks []string
	var current strings.Builder

	for _, sentence := range strings.SplitAfter(para, ". ") {
		if current.Len() > 0 && current.Len()+len(sentence) > maxChars {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}
