// Package describe turns the output of psql's \d command into a canonical form in
// which columns, indexes and constraints no longer depend on catalog storage order.
package describe

import (
	"slices"
	"strings"
)

// Definition is a description whose sections have been sorted.
type Definition []string

// Equal reports whether both definitions hold the same lines in the same order
func (d Definition) Equal(other Definition) bool {
	return slices.Equal(d, other)
}

func (d Definition) String() string {
	return strings.Join(d, "\n")
}

// Lines splits raw psql output and drops blank lines. Indexes used by Scan refer to
// the returned slice.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Normalize sorts every recognized section in place of its original lines. Lines
// outside those sections keep their position.
func Normalize(lines []string) Definition {
	layout := Scan(lines)
	out := slices.Clone(lines)
	for _, r := range layout.Ranges() {
		slices.Sort(out[r.Start:r.End])
	}
	return Definition(out)
}

// NormalizeText is Normalize applied to raw psql output.
func NormalizeText(text string) Definition {
	return Normalize(Lines(text))
}
