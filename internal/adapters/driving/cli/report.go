package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// Result statuses, as printed and exported.
const (
	statusValid      = "valid"
	statusInvalid    = "invalid"
	statusIncomplete = "incomplete"
	statusError      = "error"
)

// buildProfileHint is printed when no stored profile matches a document.
const buildProfileHint = "The profile schema does not yet exist in the profile directory. " +
	"Build the profile first, then validate this document again."

// statusOf classifies a batch item. A result without a marginality list is
// incomplete: its structural errors are known but completeness is not.
func statusOf(item domain.BatchItem) string {
	switch {
	case item.Err != nil || item.Result == nil:
		return statusError
	case item.Result.MarginalityMissing():
		return statusIncomplete
	case item.Result.Valid():
		return statusValid
	default:
		return statusInvalid
	}
}

// reportPrinter renders results for people. Styling is applied only when
// writing to a terminal.
type reportPrinter struct {
	w     io.Writer
	color bool

	title lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

func newReportPrinter(w io.Writer) *reportPrinter {
	return &reportPrinter{
		w:     w,
		color: isTerminal(w),
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		ok:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *reportPrinter) paint(style lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return style.Render(text)
}

func (p *reportPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// item prints one batch item.
func (p *reportPrinter) item(item domain.BatchItem) {
	if item.Err != nil || item.Result == nil {
		p.printf("%s\n", p.paint(p.title, "== "+item.Source+" =="))
		p.failure(item.Err)
		p.printf("\n")
		return
	}
	p.result(item.Source, item.Result)
}

// failure prints a document-level error.
func (p *reportPrinter) failure(err error) {
	if err == nil {
		err = errors.New("no result")
	}
	p.printf("%s %v\n", p.paint(p.fail, "Error:"), err)
	if errors.Is(err, domain.ErrProfileNotFound) {
		p.printf("%s\n", p.paint(p.muted, buildProfileHint))
	}
}

// result prints a full validation result.
func (p *reportPrinter) result(source string, r *domain.ValidationResult) {
	if source == "" {
		source = r.Source
	}
	p.printf("%s\n", p.paint(p.title, "== "+source+" =="))
	p.printf("Profile: %s %s (%s)\n", r.Profile.Name, r.Profile.Version, r.Profile.Resolution)
	for _, w := range r.Warnings {
		p.printf("%s %s\n", p.paint(p.warn, "Warning:"), w)
	}

	if len(r.ErrorMessages) > 0 {
		p.printf("\nStructural errors:\n")
		for _, msg := range r.ErrorMessages {
			p.printf("%s\n", indent(msg, "  "))
		}
	}

	if r.Report != nil {
		p.report(r.Report)
	} else {
		p.printf("\n%s\n", p.paint(p.warn, fmt.Sprintf(
			"No marginality list for %s %s; the completeness report was skipped.",
			r.Profile.Name, r.Profile.Version)))
	}

	if len(r.DateWarnings) > 0 {
		p.printf("\nDate checks:\n")
		for _, w := range r.DateWarnings {
			p.printf("  %s\n", p.paint(p.warn, w))
		}
	}

	p.printf("\nResult: %s\n\n", p.status(statusOf(domain.BatchItem{Result: r})))
}

// report prints the marginality report of one result.
func (p *reportPrinter) report(rep *domain.CompletenessReport) {
	p.printf("\n%s\n", p.paint(p.title, "============ Properties Marginality Report ============"))
	for _, level := range domain.Levels() {
		lr := rep.Level(level)
		p.printf("%s\n", string(level))
		p.printf("  Missing:     %s\n", joinOrNone(lr.Missing))
		p.printf("  Implemented: %s\n", joinOrNone(lr.Implemented))
		if len(lr.Error) > 0 {
			p.printf("  Error:       %s\n", p.paint(p.fail, strings.Join(lr.Error, ", ")))
		} else {
			p.printf("  Error:       none\n")
		}
	}
	if len(rep.ExtraProperties) == 0 {
		p.printf("There is no property name in the metadata outside of the profile.\n")
	} else {
		p.printf("These properties are in the metadata but not in the profile: %s\n",
			strings.Join(rep.ExtraProperties, ", "))
	}
}

func (p *reportPrinter) status(status string) string {
	label := strings.ToUpper(status)
	switch status {
	case statusValid:
		return p.paint(p.ok, label)
	case statusIncomplete:
		return p.paint(p.warn, label)
	default:
		return p.paint(p.fail, label)
	}
}

// summary prints status counts for a batch.
func (p *reportPrinter) summary(items []domain.BatchItem) {
	counts := map[string]int{}
	for _, item := range items {
		counts[statusOf(item)]++
	}
	p.printf("Validated %d document(s): %d valid, %d invalid, %d incomplete, %d failed\n",
		len(items), counts[statusValid], counts[statusInvalid], counts[statusIncomplete], counts[statusError])
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
