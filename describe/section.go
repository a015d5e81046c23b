package describe

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section identifies the structural part of a psql \d description a line belongs to
type Section int

const (
	SectionStart Section = iota
	SectionColumns
	SectionIndexes
	SectionCheckConstraints
	SectionForeignKeyConstraints
	SectionReferencedBy
	SectionEnd
)

func (s Section) String() string {
	switch s {
	case SectionStart:
		return "start"
	case SectionColumns:
		return "columns"
	case SectionIndexes:
		return "indexes"
	case SectionCheckConstraints:
		return "check constraints"
	case SectionForeignKeyConstraints:
		return "foreign-key constraints"
	case SectionReferencedBy:
		return "referenced by"
	case SectionEnd:
		return "end"
	default:
		return "unknown"
	}
}

// collecting reports whether lines in this section are tracked and sorted
func (s Section) collecting() bool {
	return s > SectionStart && s < SectionEnd
}

// columnRule starts the line under the column header row.
const columnRule = "--"

// sectionLabels lists the headers that may follow the column table. It is the only
// place that knows psql's wording: any header missing here, including a localized one,
// stops normalization for the rest of the description.
var sectionLabels = map[string]Section{
	"Indexes:":                 SectionIndexes,
	"Check constraints:":       SectionCheckConstraints,
	"Foreign-key constraints:": SectionForeignKeyConstraints,
	"Referenced by:":           SectionReferencedBy,
}

func sectionForLabel(label string) Section {
	if s, ok := sectionLabels[label]; ok {
		return s
	}
	return SectionEnd
}

// Range is a half-open [Start, End) span of line indexes.
type Range struct {
	Start int
	End   int
}

// Len returns the number of lines in the range
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) extend(i int) Range {
	return Range{Start: r.Start, End: i + 1}
}

// Layout holds the range of every collecting section seen during a scan.
type Layout struct {
	ranges map[Section]Range
}

// Range returns the lines owned by a section, if it appeared.
func (l Layout) Range(s Section) (Range, bool) {
	r, ok := l.ranges[s]
	return r, ok
}

// Ranges returns present ranges in section order.
func (l Layout) Ranges() []Range {
	var out []Range
	for s := SectionColumns; s < SectionEnd; s++ {
		if r, ok := l.ranges[s]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (l Layout) with(s Section, i int) Layout {
	ranges := make(map[Section]Range, len(l.ranges)+1)
	for k, v := range l.ranges {
		ranges[k] = v
	}
	if r, ok := ranges[s]; ok {
		ranges[s] = r.extend(i)
	} else {
		ranges[s] = Range{Start: i, End: i + 1}
	}
	return Layout{ranges: ranges}
}

type transition struct {
	next   Section
	owned  bool
	header bool
}

func step(state Section, line string) transition {
	switch {
	case state == SectionStart:
		if strings.HasPrefix(line, columnRule) {
			return transition{next: SectionColumns}
		}
		return transition{next: SectionStart}
	case state.collecting():
		if startsWithSpace(line) {
			return transition{next: state, owned: true}
		}
		return transition{next: sectionForLabel(line), header: true}
	default:
		return transition{next: SectionEnd}
	}
}

func startsWithSpace(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return r != utf8.RuneError && unicode.IsSpace(r)
}

// Scan walks the lines once, top to bottom, and records which contiguous range each
// collecting section owns. It never fails; unrecognized structure ends in SectionEnd.
func Scan(lines []string) Layout {
	layout := Layout{}
	state := SectionStart
	for i, line := range lines {
		t := step(state, line)
		if t.header {
			// re-entering a section would make its range swallow the ones in between
			if _, seen := layout.Range(t.next); seen {
				t.next = SectionEnd
			}
		}
		if t.owned {
			layout = layout.with(t.next, i)
		}
		state = t.next
	}
	return layout
}
