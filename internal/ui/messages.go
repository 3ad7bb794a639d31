package ui

import (
	"fmt"
	"strings"
)

// Symbols used across both tools' terminal output.
const (
	SuccessSymbol = "✓"
	ErrorSymbol   = "✗"
	WarningSymbol = "⚠"
)

// RuleWidth is the width of horizontal rules in report output.
const RuleWidth = 60

// PrintTitle prints a tool banner followed by a horizontal rule.
func PrintTitle(title string) {
	fmt.Println(HeaderStyle.Render(title))
	PrintRule()
}

// PrintRule prints a horizontal rule separating report sections.
func PrintRule() {
	fmt.Println(DimStyle.Render(strings.Repeat("=", RuleWidth)))
}

// PrintSection prints a stage banner, e.g. before a configure or build step.
func PrintSection(message string) {
	fmt.Println()
	fmt.Println(HeaderStyle.Render("=== " + message + " ==="))
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Println(SuccessStyle.Bold(true).Render(SuccessSymbol + " " + message))
}

// PrintFailure prints a failure message. Unlike PrintError it carries no
// "Error:" prefix, so it fits inline with report output.
func PrintFailure(message string) {
	fmt.Println(ErrorStyle.Bold(true).Render(ErrorSymbol + " " + message))
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Println(WarningStyle.Bold(true).Render(WarningSymbol + " " + message))
}

// PrintError prints a top-level error message.
func PrintError(message string) {
	fmt.Println(ErrorStyle.Bold(true).Render(ErrorSymbol + " Error: " + message))
}

// PrintEntryOK prints a per-entry progress line for a successful entry.
// Entries are indexed 1-based over the whole manifest.
func PrintEntryOK(idx, total int, message string) {
	fmt.Printf("  [%d/%d] %s %s\n", idx, total, SuccessStyle.Render(SuccessSymbol), message)
}

// PrintEntryError prints a per-entry progress line for a failed entry.
func PrintEntryError(idx, total int, message string) {
	fmt.Printf("  [%d/%d] %s %s\n", idx, total, ErrorStyle.Render(ErrorSymbol), message)
}

// PrintEntrySkip prints a per-entry progress line for a skipped entry.
func PrintEntrySkip(idx, total int, message string) {
	fmt.Printf("  [%d/%d] %s\n", idx, total, DimStyle.Render(message))
}
