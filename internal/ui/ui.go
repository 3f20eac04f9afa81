package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	// ANSI Colors
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func PrintHeader(w io.Writer, msg string) {
	fmt.Fprintf(w, "\n%s%s%s\n", ColorBold, msg, ColorReset)
}

func PrintSuccess(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "  %s✔%s %-15s %s%s\n", ColorGreen, ColorReset, label, ColorGreen, detail+ColorReset)
}

func PrintWarning(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "  %s!%s %-15s %s%s\n", ColorYellow, ColorReset, label, ColorYellow, detail+ColorReset)
}

// PrintDiff writes to w a line diff from oldText to newText, prefixing added
// lines with '+' and removed lines with '-'. Carriage returns are dropped
// from the displayed lines. It returns the number of added and removed lines.
func PrintDiff(w io.Writer, oldText, newText string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added++
				fmt.Fprintf(w, "%s+%s%s\n", ColorGreen, line, ColorReset)
			case diffmatchpatch.DiffDelete:
				removed++
				fmt.Fprintf(w, "%s-%s%s\n", ColorRed, line, ColorReset)
			default:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
	return added, removed
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
