package pipeline

import "errors"

// ErrNoInputFiles is returned when the input folder contains no supported
// documents. Fatal: the run terminates before any ingestion work begins.
var ErrNoInputFiles = errors.New("no supported input files found")
