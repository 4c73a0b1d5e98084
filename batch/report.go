package batch

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arjunmahishi/qmlfix/qmlfix"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
)

// maxListedErrors bounds the errors printed in the summary.
const maxListedErrors = 10

const rule = "============================================================"

// ReportOptions configures a Reporter.
type ReportOptions struct {
	// Verbose lists harvested symbols and every rewrite.
	Verbose bool

	// Diff prints a unified diff of each changed file in dry-run mode.
	Diff bool

	// DryRun marks the run as not persisting anything.
	DryRun bool

	// Color enables styled output.
	Color bool
}

type styles struct {
	heading lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Reporter prints human readable progress and a summary. It implements
// Observer.
type Reporter struct {
	w     io.Writer
	opts  ReportOptions
	style styles
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, opts ReportOptions) *Reporter {
	return &Reporter{w: w, opts: opts, style: newStyles(w, opts.Color)}
}

// Header prints the run parameters.
func (r *Reporter) Header(dir, pattern string, limit int, configFile string) {
	mode := "LIVE"
	if r.opts.DryRun {
		mode = "DRY RUN"
	}
	r.println(r.style.heading.Render("QML Unqualified Access Qualifier"))
	r.println(rule)
	r.printf("Directory: %s\n", dir)
	r.printf("Pattern:   %s\n", pattern)
	r.printf("Mode:      %s\n", mode)
	if limit > 0 {
		r.printf("Limit:     %d files\n", limit)
	}
	if configFile != "" {
		r.printf("Config:    %s\n", configFile)
	}
	r.println(rule)
	r.println("")
}

// Found prints the number of files selected.
func (r *Reporter) Found(n int) {
	r.printf("Found %d QML files\n\n", n)
}

// FileStarted implements Observer.
func (r *Reporter) FileStarted(job FileJob) {
	r.printf("Processing: %s\n", job.DisplayPath)
}

// FileDone implements Observer.
func (r *Reporter) FileDone(fr FileResult) {
	defer r.println("")

	if fr.Err != nil {
		r.printf("  %s\n", r.style.fail.Render("✗ Error processing "+fr.Job.DisplayPath+": "+fr.Err.Error()))
		return
	}

	res := fr.Result
	switch res.Skipped {
	case qmlfix.SkipNone:
	case qmlfix.SkipNoRootScope:
		r.printf("  → %s\n", r.style.muted.Render("No root component found"))
		return
	default:
		r.printf("  → %s\n", r.style.warn.Render("Skipped: "+string(res.Skipped)))
		return
	}

	if res.IDAdded {
		r.printf("  → Adding 'id: %s' to %s\n", res.Prefix, res.Scope.TypeName)
	} else if r.opts.Verbose {
		r.printf("  → %s already has an id (%s)\n", res.Scope.TypeName, res.Prefix)
	}

	if r.opts.Verbose {
		if names := res.Symbols.Names(); len(names) > 0 {
			r.printf("  → Found %d properties: %s\n", len(names), strings.Join(names, ", "))
		} else {
			r.println("  → No properties found")
		}
	}

	if n := len(res.Rewrites); n > 0 {
		r.printf("  → %s\n", r.style.ok.Render(fmt.Sprintf("Qualified %d property accesses", n)))
		if r.opts.Verbose {
			for _, rw := range res.Rewrites {
				r.printf("      Line %d: %s → %s\n", rw.Line, rw.Name, rw.Replacement)
			}
		}
	} else if res.Symbols.Len() > 0 {
		r.println("  → No unqualified access found")
	}

	if r.opts.Diff && r.opts.DryRun && res.Changed {
		r.diff(fr)
	}
}

func (r *Reporter) diff(fr FileResult) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(fr.Original),
		B:        difflib.SplitLines(fr.Result.Text),
		FromFile: "a/" + fr.Job.DisplayPath,
		ToFile:   "b/" + fr.Job.DisplayPath,
		Context:  3,
	})
	if err != nil {
		r.printf("  %s\n", r.style.fail.Render("diff: "+err.Error()))
		return
	}
	r.printf("%s", text)
	if !strings.HasSuffix(text, "\n") {
		r.println("")
	}
}

// Summary prints the totals table, the first errors and the dry-run notice.
func (r *Reporter) Summary(stats Stats) {
	r.println("")
	r.println(rule)
	r.println(r.style.heading.Render("SUMMARY"))
	r.println(rule)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Metric", "Count"})
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk([][]string{
		{"Files processed", strconv.Itoa(stats.FilesProcessed)},
		{"Files modified", strconv.Itoa(stats.FilesModified)},
		{"Files skipped", strconv.Itoa(stats.FilesSkipped)},
		{"IDs added", strconv.Itoa(stats.IDsAdded)},
		{"References qualified", strconv.Itoa(stats.ReferencesQualified)},
		{"Errors", strconv.Itoa(len(stats.Errors))},
	})
	table.Render()
	r.printf("%s", buf.String())

	if len(stats.Errors) > 0 {
		r.println("")
		r.println(r.style.fail.Render("Errors:"))
		for i, fe := range stats.Errors {
			if i == maxListedErrors {
				r.printf("  ... and %d more\n", len(stats.Errors)-maxListedErrors)
				break
			}
			r.printf("  - %s\n", fe.Error())
		}
	}

	if r.opts.DryRun {
		r.println("")
		r.println(r.style.warn.Render("⚠️  DRY RUN - No files were actually modified"))
	}
	r.println("")
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) println(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}
