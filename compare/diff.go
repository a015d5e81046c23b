package compare

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/alc6/pgdbdiff/describe"
)

// DiffLabel names one side of a diff as <category>.<database>.<object>
func DiffLabel(category Category, database, name string) string {
	return fmt.Sprintf("%s.%s.%s", category, database, name)
}

// RenderDiff produces a unified diff whose context covers both definitions entirely
func RenderDiff(first, second describe.Definition, fromLabel, toLabel string) (string, error) {
	a, b := diffLines(first), diffLines(second)
	diff := difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  len(a) + len(b),
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to render diff: %w", err)
	}
	return text, nil
}

func diffLines(def describe.Definition) []string {
	lines := make([]string, len(def))
	for i, line := range def {
		lines[i] = line + "\n"
	}
	return lines
}

// DiffWriter persists rendered diffs as <object>.diff files
type DiffWriter struct {
	// Dir is created on first write; an empty Dir disables writing
	Dir string
}

// Enabled reports whether diffs are written to disk
func (w DiffWriter) Enabled() bool {
	return w.Dir != ""
}

// Write stores the diff for an object, replacing any previous file, and returns its path
func (w DiffWriter) Write(name, diff string) (string, error) {
	if !w.Enabled() {
		return "", nil
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create diff directory %s: %w", w.Dir, err)
	}
	path := filepath.Join(w.Dir, diffFileName(name))
	if err := os.WriteFile(path, []byte(diff), 0o644); err != nil {
		return "", fmt.Errorf("failed to write diff for %s: %w", name, err)
	}
	slog.Debug("wrote diff", "object", name, "path", path)
	return path, nil
}

func diffFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "%2F")
	if filepath.Separator != '/' {
		name = strings.ReplaceAll(name, string(filepath.Separator), "%5C")
	}
	return name + ".diff"
}
