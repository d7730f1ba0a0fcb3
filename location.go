package taskframe

import (
	"fmt"
	"runtime"
	"strings"
)

// Location identifies a call site: the function a Frame was created for,
// and the file/line (and, where available, column) of that creation.
//
// Location is immutable and comparable.
type Location struct {
	FuncName string
	File     string
	Line     int
	Column   int
}

// String renders loc the way a dumped tree reports a frame's origin:
// "<fn> at <file>:<line>:<column>".
func (loc Location) String() string {
	return fmt.Sprintf("%s at %s:%d:%d", loc.FuncName, loc.File, loc.Line, loc.Column)
}

// Capture records the caller's location. Call it directly from the
// function whose frame it identifies; it records the same location as
// CaptureSkip(0) called from the same place.
func Capture() Location {
	return captureSkip(2)
}

// CaptureSkip records the location skip frames above the caller of
// CaptureSkip. skip == 0 names the caller of CaptureSkip itself.
func CaptureSkip(skip int) Location {
	return captureSkip(skip + 2)
}

func captureSkip(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{FuncName: "unknown", File: "unknown", Line: 0, Column: 0}
	}

	name := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = trimFuncName(fn.Name())
	}

	// Go's runtime does not expose the call site's column; unlike Rust's
	// #[track_caller], there is no public API for it. Column is kept in
	// the struct (and the rendered format) for parity, and is always 0.
	return Location{FuncName: name, File: file, Line: line, Column: 0}
}

// trimFuncName strips the leading module/package path and any trailing
// closure-literal suffixes the runtime appends per level of func-literal
// nesting (".func1", ".func1.2", ...), leaving the "Receiver.Method" or
// "function" name a caller actually wrote, the way a user recognizes
// their own code rather than its fully qualified, closure-decorated form.
func trimFuncName(full string) string {
	if idx := strings.LastIndexByte(full, '/'); idx >= 0 {
		full = full[idx+1:]
	}

	for {
		idx := strings.LastIndexByte(full, '.')
		if idx < 0 || !isClosureSuffix(full[idx+1:]) {
			break
		}
		full = full[:idx]
	}

	// full is now "pkg.Func" or "pkg.(*Type).Method"; drop the leading
	// "pkg."
	if idx := strings.IndexByte(full, '.'); idx >= 0 {
		return full[idx+1:]
	}
	return full
}

// isClosureSuffix reports whether s is a name segment the runtime
// generates for an anonymous function literal: "func1", "func2", ... for
// the first level of nesting under a named function, and a bare ordinal
// ("1", "2", ...) for each level nested inside that.
func isClosureSuffix(s string) bool {
	digits := strings.TrimPrefix(s, "func")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
