// Package logx is a thin wrapper over the standard logger, used for the
// renderer's build/frame diagnostics the way the engine's cmd/demo prints
// its own startup status lines, just routed through one place instead of
// scattered fmt.Println calls.
package logx

import (
	"io"
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

func Infof(format string, args ...interface{}) {
	std.Printf("[info] "+format, args...)
}

func Warnf(format string, args ...interface{}) {
	std.Printf("[warn] "+format, args...)
}

// SetOutput redirects logx's output, used by tests to silence or capture
// diagnostics.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}
