// Package observability provides formatted output utilities for the CLI's
// text mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/sectioning"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// DefaultPreviewLen is how much of each section is shown
	DefaultPreviewLen = 300
)

// Printer handles formatted output for text mode
type Printer struct {
	out        io.Writer
	previewLen int
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, previewLen: DefaultPreviewLen}
}

// WithPreviewLen sets how many characters of each section are printed.
// Zero or less prints whole sections.
func (p *Printer) WithPreviewLen(n int) *Printer {
	p.previewLen = n
	return p
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// preview shortens text to the printer's preview length.
func (p *Printer) preview(text string) string {
	if p.previewLen <= 0 {
		return text
	}
	short := sectioning.Preview(text, p.previewLen)
	if short != text {
		return short + "..."
	}
	return text
}

func sectionTitle(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// PrintSections outputs one box per section in canonical order.
func (p *Printer) PrintSections(m sectioning.SectionMap) {
	if len(m) == 0 {
		p.printBox("NO SECTIONS FOUND", "")
		return
	}

	for _, key := range m.Keys() {
		content := m[key]
		if content.Kind() != sectioning.KindProjectList {
			p.printBox(sectionTitle(string(key)), p.preview(content.Text()))
			continue
		}

		var sb strings.Builder
		projects := content.Projects()
		count := min(len(projects), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p.preview(projects[i])))
		}
		if len(projects) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(projects)-maxItemsToShow))
		}
		p.printBox(fmt.Sprintf("%s (%d)", sectionTitle(string(key)), len(projects)),
			strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintSummary outputs per-section counts and the missing sections.
func (p *Printer) PrintSummary(summary sectioning.Summary) {
	var sb strings.Builder

	for _, s := range summary.Sections {
		sb.WriteString(fmt.Sprintf("%-18s %4d lines %6d chars", s.Key, s.Lines, s.Chars))
		if s.Projects > 0 {
			sb.WriteString(fmt.Sprintf("  (%d projects)", s.Projects))
		}
		sb.WriteString("\n")
	}

	if len(summary.Missing) > 0 {
		missing := make([]string, len(summary.Missing))
		for i, k := range summary.Missing {
			missing[i] = string(k)
		}
		sb.WriteString("\nMissing: " + strings.Join(missing, ", "))
	}
	if summary.HasOther {
		sb.WriteString("\nUnclassified content kept under other")
	}

	p.printBox("SEGMENTATION SUMMARY", strings.TrimRight(sb.String(), "\n"))
}

// PrintJDSections outputs the non-empty job description sections.
func (p *Printer) PrintJDSections(m sectioning.JDSectionMap) {
	printed := 0
	for _, key := range sectioning.JDKeys() {
		text := strings.TrimRight(m[key], "\n")
		if text == "" {
			continue
		}
		p.printBox(sectionTitle(string(key)), p.preview(text))
		printed++
	}
	if printed == 0 {
		p.printBox("NO SECTIONS FOUND", "")
	}
}

// PrintBatchReport outputs the outcome of a batch run.
func (p *Printer) PrintBatchReport(report *types.BatchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Files:     %d\n", report.Total))
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", report.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:    %d", report.Failed))

	failures := 0
	for _, item := range report.Items {
		if item.Error == "" {
			continue
		}
		if failures == 0 {
			sb.WriteString("\n\nFailures:")
		}
		failures++
		if failures > maxItemsToShow {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n  • %s: %s", item.Source, item.Error))
	}
	if failures > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n  ... and %d more", failures-maxItemsToShow))
	}

	p.printBox("BATCH REPORT", sb.String())
}
