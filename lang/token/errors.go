package token

import (
	"fmt"
	"go/scanner"
	"io"
	"sort"
)

// Level classifies a Diagnostic by severity.
type Level int

const (
	Warning Level = iota
	ErrorLevel
	Fatal
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case ErrorLevel:
		return "error"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// Diagnostic is a single user-visible message tied to a source position,
// rendered as "file:line:col: level: message".
type Diagnostic struct {
	File    string
	Pos     Pos
	Level   Level
	Message string
}

func (d Diagnostic) String() string {
	line, col := d.Pos.LineCol()
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, line, col, d.Level, d.Message)
}

// DiagnosticList accumulates Diagnostics in insertion order; Sort reorders
// them by file name, then line, then column. The rendering piggybacks on
// go/scanner.Error rather than
// a bespoke error type; see scannerError.
type DiagnosticList struct {
	items []Diagnostic
}

// Add records a new diagnostic against the current file.
func (dl *DiagnosticList) Add(file string, pos Pos, level Level, format string, args ...any) {
	dl.items = append(dl.items, Diagnostic{
		File:    file,
		Pos:     pos,
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// Errors returns the diagnostics at ErrorLevel or Fatal.
func (dl *DiagnosticList) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range dl.items {
		if d.Level >= ErrorLevel {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any diagnostic at ErrorLevel or above was
// recorded. The driver uses it as the per-file error flag: a file with
// errors gets no object file, but later files still compile.
func (dl *DiagnosticList) HasErrors() bool {
	for _, d := range dl.items {
		if d.Level >= ErrorLevel {
			return true
		}
	}
	return false
}

// All returns every diagnostic recorded so far, in insertion order.
func (dl *DiagnosticList) All() []Diagnostic { return dl.items }

// Sort orders diagnostics by file, then line, then column, matching
// go/scanner.ErrorList's ordering contract. Pos packs the column in its high
// bits, so raw Pos comparison would order by column first; the line/column
// pair is unpacked instead.
func (dl *DiagnosticList) Sort() {
	sort.SliceStable(dl.items, func(i, j int) bool {
		a, b := dl.items[i], dl.items[j]
		if a.File != b.File {
			return a.File < b.File
		}
		aLine, aCol := a.Pos.LineCol()
		bLine, bCol := b.Pos.LineCol()
		if aLine != bLine {
			return aLine < bLine
		}
		return aCol < bCol
	})
}

// scannerError adapts a Diagnostic to go/scanner.Error, for components that
// want to reuse scanner.PrintError's formatting.
func (d Diagnostic) scannerError() scanner.Error {
	line, col := d.Pos.LineCol()
	return scanner.Error{
		Pos: toScannerPosition(d.File, line, col),
		Msg: fmt.Sprintf("%s: %s", d.Level, d.Message),
	}
}

// PrintError writes every recorded diagnostic to w, one per line, through
// go/scanner's ErrorList printer.
func (dl *DiagnosticList) PrintError(w io.Writer) {
	var el scanner.ErrorList
	for _, d := range dl.items {
		se := d.scannerError()
		el = append(el, &se)
	}
	scanner.PrintError(w, el)
}
