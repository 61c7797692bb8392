package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DocxExtractor extracts text from DOCX files.
//
// A .docx is a zip archive whose body text lives in word/document.xml as
// <w:t> runs grouped into <w:p> paragraphs. Paragraph ends map to blank
// lines so the chunker sees real paragraph boundaries.
type DocxExtractor struct{}

// Extract returns the document body text.
func (e *DocxExtractor) Extract(_ context.Context, path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return parseDocumentXML(rc)
	}

	return "", fmt.Errorf("docx archive has no word/document.xml")
}

// parseDocumentXML walks the token stream collecting text runs.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}

var _ Extractor = (*DocxExtractor)(nil)
