package lox

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

// TestGolden runs every testdata/*.lox program end to end and compares its
// print output against the matching *.out fixture, the same file-pair
// convention a differential test suite would use against a reference
// implementation — except the "reference" here is a checked-in expectation,
// since there is nothing external to diff against.
func TestGolden(t *testing.T) {
	sources, err := filepath.Glob(filepath.Join("testdata", "*.lox"))
	require.NoError(t, err)
	require.NotEmpty(t, sources, "expected at least one golden fixture")

	for _, src := range sources {
		src := src
		name := strings.TrimSuffix(filepath.Base(src), ".lox")
		t.Run(name, func(t *testing.T) {
			wantPath := strings.TrimSuffix(src, ".lox") + ".out"
			want, err := os.ReadFile(wantPath)
			require.NoError(t, err)

			source, err := os.ReadFile(src)
			require.NoError(t, err)

			got, diags := runSource(t, string(source))
			require.False(t, diags.HadStaticError, "%s: unexpected static error", name)
			require.False(t, diags.HadRuntimeError, "%s: unexpected runtime error", name)

			if got != string(want) {
				t.Errorf("%s: output mismatch\n%s", name, diffLines(string(want), got))
			}
		})
	}
}

// diffLines renders a side-by-side, colored line diff in the style of a
// pass/fail test report: matching lines in green, differing lines in red.
func diffLines(want, got string) string {
	wantLines := strings.Split(strings.TrimRight(want, "\n"), "\n")
	gotLines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	var buf bytes.Buffer
	max := len(wantLines)
	if len(gotLines) > max {
		max = len(gotLines)
	}
	for i := 0; i < max; i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w == g {
			color.New(color.FgGreen).Fprintf(&buf, "  %s\n", w)
		} else {
			color.New(color.FgRed).Fprintf(&buf, "- %s\n+ %s\n", w, g)
		}
	}
	return buf.String()
}
