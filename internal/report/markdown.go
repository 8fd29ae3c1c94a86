package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/campus-tools/iliasdl/internal/journal"
)

// Writer renders a run summary as Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type Writer struct {
	output io.Writer

	// now is the report timestamp source, replaceable in tests.
	now func() time.Time
}

// NewWriter creates a Writer that renders to the given output.
func NewWriter(output io.Writer) *Writer {
	return &Writer{
		output: output,
		now:    time.Now,
	}
}

// Write renders the full report for one run summary.
func (w *Writer) Write(summary *journal.Summary) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeResults(md, summary)
	w.writeKinds(md, summary)
	w.writeFailures(md, summary)
	w.writeFooter(md)

	return md.Build()
}

// writeHeader writes the run information table.
func (w *Writer) writeHeader(md *markdown.Markdown, summary *journal.Summary) {
	md.H1("Sync Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", strconv.FormatInt(summary.RunID, 10)},
			{"Output", "`" + summary.OutputRoot + "`"},
			{"Generated", w.now().Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

// writeResults writes the per-status counts and the result alert.
func (w *Writer) writeResults(md *markdown.Markdown, summary *journal.Summary) {
	md.H2("Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"Downloaded", strconv.Itoa(summary.Downloaded)},
			{"Skipped", strconv.Itoa(summary.Skipped)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"**Bytes written**", "**" + formatBytes(summary.Bytes) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case summary.Failed > 0:
		md.Warningf("%d artifact(s) failed; the rest of the run completed. See the failure list below.", summary.Failed)
	case summary.Downloaded == 0:
		md.Note("Nothing new to download; the mirror is up to date.")
	default:
		md.Tipf("%d artifact(s) downloaded without failures.", summary.Downloaded)
	}
	md.PlainText("")
}

// writeKinds writes the downloaded-artifacts-by-kind table.
func (w *Writer) writeKinds(md *markdown.Markdown, summary *journal.Summary) {
	if len(summary.ByKind) == 0 {
		return
	}

	md.H2("Downloads by Kind")
	md.PlainText("")

	kinds := make([]string, 0, len(summary.ByKind))
	for kind := range summary.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	rows := make([][]string, len(kinds))
	for i, kind := range kinds {
		rows[i] = []string{kind, strconv.Itoa(summary.ByKind[kind])}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes one table row per failed artifact.
func (w *Writer) writeFailures(md *markdown.Markdown, summary *journal.Summary) {
	if len(summary.Failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(summary.Failures))
	for i, f := range summary.Failures {
		detail := f.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{
			"`" + truncateString(f.Path, 60) + "`",
			f.Kind,
			truncateString(detail, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "Kind", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *Writer) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by iliasdl*")
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
