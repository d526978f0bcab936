// Package cliutil provides output helpers shared by the openapi commands and
// the finding presenter.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// ErrorOutput receives a note when a write fails.
var ErrorOutput io.Writer = os.Stderr

// Writef writes formatted output to w. Commands print to pipes that may be
// closed early (openapi lint | head), so a failed write is noted on
// ErrorOutput instead of being returned.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(ErrorOutput, "openapi: write error: %v\n", err)
	}
}
