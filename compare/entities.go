package compare

import (
	"log/slog"
	"slices"
)

type nameSet map[string]struct{}

func newNameSet(names []string) nameSet {
	set := make(nameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s nameSet) minus(other nameSet) []string {
	var out []string
	for name := range s {
		if _, ok := other[name]; !ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func (s nameSet) intersect(other nameSet) []string {
	var out []string
	for name := range s {
		if _, ok := other[name]; ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// CompareEntitySets reports the names that exist in only one of the two databases
func CompareEntitySets(first, second []string, category Category) EntityReport {
	a, b := newNameSet(first), newNameSet(second)
	report := EntityReport{
		Category:     category,
		OnlyInFirst:  a.minus(b),
		OnlyInSecond: b.minus(a),
	}
	slog.Debug("compared object sets",
		"category", category,
		"first", len(a),
		"second", len(b),
		"onlyInFirst", len(report.OnlyInFirst),
		"onlyInSecond", len(report.OnlyInSecond))
	return report
}

// Shared returns the sorted names present in both databases
func Shared(first, second []string) []string {
	return newNameSet(first).intersect(newNameSet(second))
}
