package compare

import (
	"fmt"
	"strings"
)

// FormatEntityReport renders the names missing from either database
func FormatEntityReport(report EntityReport) string {
	var sb strings.Builder
	writeNameList(&sb, fmt.Sprintf("%s: additional in first db", report.Category), report.OnlyInFirst)
	writeNameList(&sb, fmt.Sprintf("%s: additional in second db", report.Category), report.OnlyInSecond)
	return sb.String()
}

// FormatDefinitionReport renders mismatching definitions, then mismatching row counts
func FormatDefinitionReport(report *DefinitionReport) string {
	var sb strings.Builder
	writeNameList(&sb, fmt.Sprintf("%s: not matching", report.Category), report.MismatchNames())

	counts := make([]string, 0, len(report.RowcountMismatches))
	for _, m := range report.RowcountMismatches {
		counts = append(counts, m.String())
	}
	writeNameList(&sb, fmt.Sprintf("%s: not matching rowcount", report.Category), counts)
	return sb.String()
}

func writeNameList(sb *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	sb.WriteString(title + "\n\n")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("\t%s\n\n", name))
	}
	sb.WriteString("\n\n")
}
