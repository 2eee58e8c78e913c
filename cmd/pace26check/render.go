package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/manpen/pace26checker/internal/diagfmt"
	"github.com/manpen/pace26checker/internal/driver"
	"github.com/manpen/pace26checker/internal/version"
)

// verdictOutput is the machine-readable form of res.
func (s *settings) verdictOutput(res *driver.Result) diagfmt.VerdictOutput {
	out := diagfmt.BuildVerdictOutput(res.Verdict, res.Files, diagfmt.JSONOpts{
		PathMode:     s.pathMode,
		IncludeNotes: s.withNotes,
	})
	if res.HasObjective {
		objective := res.Objective
		out.Objective = &objective
	}
	if !res.InstanceDigest.IsZero() {
		out.InstanceDigest = res.InstanceDigest.String()
	}
	if !res.SolutionDigest.IsZero() {
		out.SolutionDigest = res.SolutionDigest.String()
	}
	return out
}

// render writes one verdict. Human formats go to stderr, machine formats
// to stdout. A rejected verdict turns into errRejected.
func (s *settings) render(cmd *cobra.Command, res *driver.Result, name string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var err error
	switch s.format {
	case "pretty":
		err = diagfmt.Pretty(stderr, res.Verdict, res.Files, diagfmt.PrettyOpts{
			Color:     s.color,
			PathMode:  s.pathMode,
			ShowNotes: s.withNotes,
			Footer:    true,
		})
		if err == nil && res.HasObjective && res.Feasible {
			_, err = fmt.Fprintf(stderr, "objective %d\n", res.Objective)
		}
	case "short":
		err = diagfmt.Short(stderr, res.Verdict, res.Files, s.withNotes)
	case "json":
		err = diagfmt.JSON(stdout, s.verdictOutput(res), true)
	case "msgpack":
		err = diagfmt.MsgPack(stdout, s.verdictOutput(res))
	case "sarif":
		err = diagfmt.Sarif(stdout, res.Verdict, res.Files, diagfmt.SarifRunMeta{
			ToolName:       "pace26check",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	case "summary":
		err = diagfmt.Summary(stdout, []diagfmt.SummaryRow{summaryRow(name, driver.BatchResult{Result: res})}, diagfmt.SummaryOpts{Rows: true})
	default:
		err = fmt.Errorf("unsupported format %q", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !res.Verdict.OK {
		return errRejected
	}
	return nil
}

func summaryRow(name string, r driver.BatchResult) diagfmt.SummaryRow {
	row := diagfmt.SummaryRow{Name: name, Elapsed: r.Elapsed}
	if r.Err != nil || r.Result == nil {
		row.Failed = true
		return row
	}
	v := r.Result.Verdict
	row.OK = v.OK
	row.Errors = v.Errors()
	row.Warnings = v.Warnings()
	row.Objective = r.Result.Objective
	row.HasObjective = r.Result.HasObjective && r.Result.Feasible
	return row
}

// openInput opens path, treating "-" as stdin.
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
