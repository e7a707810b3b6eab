package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Defacto2/unarchive"
	"github.com/fatih/color"
)

// printer writes the extraction report to the terminal.
type printer struct {
	w    io.Writer
	ok   *color.Color
	fail *color.Color
	skip *color.Color
	dim  *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:    w,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
		skip: color.New(color.FgYellow),
		dim:  color.New(color.Faint),
	}
}

// progress prints the outcome of an entry, it is the dispatcher Progress callback.
func (p *printer) progress(n, total int, e unarchive.Entry) {
	prefix := fmt.Sprintf("[%*d/%d]", len(fmt.Sprint(total)), n, total)
	pos := p.dim.Sprint(prefix)
	switch e.Status { //nolint:exhaustive
	case unarchive.Succeeded:
		fmt.Fprintf(p.w, "%s %s %s %s\n", pos, p.ok.Sprint("✓"), e.Name(),
			p.dim.Sprintf("(%s, %d files, %s, %s)", e.Format, e.Files, e.Strategy, e.Elapsed.Round(time.Millisecond)))
		if e.Readme != "" {
			fmt.Fprintf(p.w, "%s   %s\n", strings.Repeat(" ", len(prefix)), p.dim.Sprint("readme: "+e.Readme))
		}
	case unarchive.Failed:
		fmt.Fprintf(p.w, "%s %s %s %s\n", pos, p.fail.Sprint("✗"), e.Name(), p.fail.Sprint(e.Err))
	default:
		fmt.Fprintf(p.w, "%s %s %s %s\n", pos, p.skip.Sprint("-"), e.Name(), p.dim.Sprint(e.Err))
	}
}

// summary prints the totals of the run.
func (p *printer) summary(r *unarchive.Report) {
	failed := fmt.Sprintf("%d failed", r.Failed())
	if r.Failed() > 0 {
		failed = p.fail.Sprint(failed)
	}
	fmt.Fprintf(p.w, "%s, %s, %d skipped, %d files written to %s\n",
		p.ok.Sprintf("%d succeeded", r.Succeeded()), failed, r.Skipped(), r.Written(), r.Destination)
	if n := r.Count(unarchive.Pending); n > 0 {
		fmt.Fprintf(p.w, "%s\n", p.skip.Sprintf("%d archives were not attempted", n))
	}
}

// plan prints the entries with the extractors that would be tried.
func (p *printer) plan(entries []unarchive.Entry, strategies func(unarchive.Format) []string) {
	archives := 0
	for _, e := range entries {
		if e.Status == unarchive.Skipped {
			fmt.Fprintf(p.w, "%s %s %s\n", p.skip.Sprint("-"), e.Name(), p.dim.Sprint(e.Err))
			continue
		}
		archives++
		with := strategies(e.Format)
		if len(with) == 0 {
			fmt.Fprintf(p.w, "%s %s %s\n", p.fail.Sprint("✗"), e.Name(), p.fail.Sprintf("no extractor for %s", e.Format))
			continue
		}
		fmt.Fprintf(p.w, "%s %s %s\n", p.ok.Sprint("•"), e.Name(),
			p.dim.Sprintf("(%s: %s)", e.Format, strings.Join(with, ", ")))
	}
	fmt.Fprintf(p.w, "%d archives, %d other files\n", archives, len(entries)-archives)
}
