// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-tracker/internal/rendering"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxLinksToShow is the number of links listed per job
	maxLinksToShow = 3
)

// Printer handles formatted output for the terminal
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the inner box width, counting runes.
func pad(line string) string {
	inner := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > inner {
		runes := []rune(line)
		return string(runes[:inner-3]) + "..."
	}
	return line + strings.Repeat(" ", inner-n)
}

// PrintList outputs the list view: a loading line, the empty state, or one box per job
// in display order.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintList(view tracker.View) {
	switch view.Kind {
	case tracker.ViewLoading:
		fmt.Fprintln(p.out, "Loading...")
	case tracker.ViewEmpty:
		p.printBox("NO JOB APPLICATIONS YET", "Start tracking your job search by adding your first\napplication with `tracker add`.")
	default:
		for _, job := range view.Jobs {
			p.PrintJob(job)
		}
		fmt.Fprintf(p.out, "%d job application(s)\n", len(view.Jobs))
	}
}

// PrintJob outputs one job application.
func (p *Printer) PrintJob(job types.JobApplication) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Role:     %s\n", job.Role))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", job.Status.Label()))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", rendering.JobTypeLabel(job.JobType)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", rendering.Location(job.Location)))
	sb.WriteString(fmt.Sprintf("Applied:  %s\n", rendering.FormatDate(job.ApplicationDate)))

	if len(job.Links) > 0 {
		sb.WriteString("Links:\n")
		count := min(len(job.Links), maxLinksToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", rendering.LinkHref(job.Links[i])))
		}
		if len(job.Links) > maxLinksToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.Links)-maxLinksToShow))
		}
	}

	p.printBox(fmt.Sprintf("#%s  %s", job.ID, job.CompanyName), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCreated outputs a job application the store just created.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCreated(job *types.JobApplication) {
	if job == nil {
		return
	}
	fmt.Fprintf(p.out, "Created job application #%s\n", job.ID)
	p.PrintJob(*job)
}
