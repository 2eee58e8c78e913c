package diagfmt

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryRow is one checked job.
type SummaryRow struct {
	Name         string
	OK           bool
	Failed       bool // the job could not run
	Errors       int
	Warnings     int
	Objective    int64
	HasObjective bool
	Elapsed      time.Duration
}

// SummaryOpts configure Summary.
type SummaryOpts struct {
	// Lang selects digit grouping; the zero tag means English.
	Lang language.Tag
	// Rows prints one line per job before the totals.
	Rows bool
}

// Summary prints a per-job table and the totals with locale-aware number
// formatting, e.g. "objective 1,234,567".
func Summary(w io.Writer, rows []SummaryRow, opts SummaryOpts) error {
	lang := opts.Lang
	if lang == language.Und {
		lang = language.English
	}
	p := message.NewPrinter(lang)

	var ok, rejected, failed int
	var total time.Duration
	for _, r := range rows {
		switch {
		case r.Failed:
			failed++
		case r.OK:
			ok++
		default:
			rejected++
		}
		total += r.Elapsed
		if !opts.Rows {
			continue
		}
		state := "ok"
		switch {
		case r.Failed:
			state = "failed"
		case !r.OK:
			state = "rejected"
		}
		if _, err := p.Fprintf(w, "%-8s %s", state, r.Name); err != nil {
			return err
		}
		if r.HasObjective {
			if _, err := p.Fprintf(w, "  objective %d", r.Objective); err != nil {
				return err
			}
		}
		if r.Errors > 0 || r.Warnings > 0 {
			if _, err := p.Fprintf(w, "  (%d errors, %d warnings)", r.Errors, r.Warnings); err != nil {
				return err
			}
		}
		if _, err := p.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "%d checked: %d ok, %d rejected, %d failed in %.1f ms\n",
		len(rows), ok, rejected, failed, float64(total.Microseconds())/1000)
	return err
}
