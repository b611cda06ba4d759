package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		File:    "main.sl",
		Pos:     MakePos(3, 14),
		Level:   ErrorLevel,
		Message: "undefined identifier x",
	}
	assert.Equal(t, "main.sl:3:14: error: undefined identifier x", d.String())
}

func TestDiagnosticListLevels(t *testing.T) {
	var dl DiagnosticList
	dl.Add("a.sl", MakePos(1, 1), Warning, "division by literal zero")
	assert.False(t, dl.HasErrors())
	assert.Empty(t, dl.Errors())

	dl.Add("a.sl", MakePos(2, 1), ErrorLevel, "bad type")
	assert.True(t, dl.HasErrors())
	assert.Len(t, dl.Errors(), 1)
	assert.Len(t, dl.All(), 2)
}

func TestDiagnosticListSortOrdersByFileThenPos(t *testing.T) {
	var dl DiagnosticList
	dl.Add("b.sl", MakePos(1, 1), ErrorLevel, "second file")
	dl.Add("a.sl", MakePos(2, 1), ErrorLevel, "first file, later line")
	dl.Add("a.sl", MakePos(1, 1), ErrorLevel, "first file, first line")
	dl.Sort()

	all := dl.All()
	assert.Equal(t, "first file, first line", all[0].Message)
	assert.Equal(t, "first file, later line", all[1].Message)
	assert.Equal(t, "second file", all[2].Message)
}

// Line order wins over column order: a high column on an early line sorts
// before a low column on a later line, even though the packed Pos encoding
// puts the column in the high bits.
func TestDiagnosticListSortIsLineMajor(t *testing.T) {
	var dl DiagnosticList
	dl.Add("a.sl", MakePos(2, 1), ErrorLevel, "later line, first column")
	dl.Add("a.sl", MakePos(1, 9), ErrorLevel, "first line, later column")
	dl.Sort()

	all := dl.All()
	assert.Equal(t, "first line, later column", all[0].Message)
	assert.Equal(t, "later line, first column", all[1].Message)
}

func TestPrintErrorRendersOnePerLine(t *testing.T) {
	var dl DiagnosticList
	dl.Add("a.sl", MakePos(1, 2), Warning, "suspicious")
	dl.Add("a.sl", MakePos(3, 4), ErrorLevel, "broken")

	var sb strings.Builder
	dl.PrintError(&sb)
	out := sb.String()
	assert.Contains(t, out, "a.sl:1:2: warning: suspicious")
	assert.Contains(t, out, "a.sl:3:4: error: broken")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}
