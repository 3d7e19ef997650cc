// Package ui renders engine output for the command line: index listings,
// query results and status lines, colored on a TTY and plain on a pipe.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/Aman-CERP/graphtext/internal/fulltext"
)

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes human-facing output.
type Renderer struct {
	out    io.Writer
	styles Styles
}

// NewRenderer builds a renderer for the writer. Color is used only when the
// writer is a TTY and noColor is false.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	styles := NoColorStyles()
	if !noColor && IsTTY(out) {
		styles = DefaultStyles()
	}
	return &Renderer{out: out, styles: styles}
}

// IndexTable renders one line per index descriptor.
func (r *Renderer) IndexTable(descriptors []fulltext.Descriptor) {
	if len(descriptors) == 0 {
		_, _ = fmt.Fprintln(r.out, r.styles.Dim.Render("no indexes"))
		return
	}

	_, _ = fmt.Fprintln(r.out, r.styles.Header.Render(
		fmt.Sprintf("%-24s %-14s %-10s %4s  %s", "IDENTIFIER", "SCOPE", "ANALYZER", "PART", "PROPERTIES")))
	for _, d := range descriptors {
		_, _ = fmt.Fprintf(r.out, "%-24s %-14s %-10s %4d  %s\n",
			d.Identifier, d.EntityType, d.Analyzer, d.Partitions,
			strings.Join(d.Properties, ", "))
	}
}

// QueryResults renders the ids matching a query plus a timing footer.
func (r *Renderer) QueryResults(identifier string, ids []uint64, took time.Duration) {
	for _, id := range ids {
		_, _ = fmt.Fprintln(r.out, id)
	}
	footer := fmt.Sprintf("%d entities from %q in %s", len(ids), identifier, took.Round(time.Microsecond))
	_, _ = fmt.Fprintln(r.out, r.styles.Dim.Render(footer))
}

// Successf writes a success line.
func (r *Renderer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warnf writes a warning line.
func (r *Renderer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Errorf writes an error line.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.styles.Error.Render(fmt.Sprintf(format, args...)))
}
