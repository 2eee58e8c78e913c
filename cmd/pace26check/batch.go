package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/diagfmt"
	"github.com/manpen/pace26checker/internal/driver"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/ui"
	"github.com/manpen/pace26checker/internal/version"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir|file>...",
		Short: "Check every instance below the given paths",
		Long: `Batch pairs every *.in or *.gr file with a *.out or *.sol file of the
same name and checks the pairs in parallel. Instances without a solution are
linted only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}
	cmd.Flags().IntP("jobs", "j", 0, "number of parallel checks (0 = GOMAXPROCS)")
	cmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	return cmd
}

// batchEntry is one job in json and msgpack batch output.
type batchEntry struct {
	Instance  string                 `json:"instance" msgpack:"instance"`
	Solution  string                 `json:"solution,omitempty" msgpack:"solution,omitempty"`
	Error     string                 `json:"error,omitempty" msgpack:"error,omitempty"`
	Verdict   *diagfmt.VerdictOutput `json:"verdict,omitempty" msgpack:"verdict,omitempty"`
	ElapsedMS float64                `json:"elapsed_ms" msgpack:"elapsed_ms"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	uiMode, err := readUIMode(cmd)
	if err != nil {
		return err
	}

	var jobs []driver.Job
	for _, arg := range args {
		found, err := driver.DiscoverJobs(arg)
		if err != nil {
			return fmt.Errorf("discover %s: %w", arg, err)
		}
		jobs = append(jobs, found...)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no instances found in %s", strings.Join(args, ", "))
	}
	s.log.Named("batch").Info(fmt.Sprintf("checking %d jobs", len(jobs)))

	stop, err := s.startProfiling(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer stop()

	var results []driver.BatchResult
	if shouldUseTUI(uiMode, cmd.ErrOrStderr()) {
		results, err = ui.RunBatch(cmd.Context(), "pace26check batch", jobs, s.opts, cmd.ErrOrStderr())
	} else {
		results, err = driver.CheckBatch(cmd.Context(), jobs, s.opts)
	}
	stop()
	if err != nil {
		return err
	}

	if err := s.renderBatch(cmd, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, r := range results {
		if !r.OK() {
			return errRejected
		}
	}
	return nil
}

func (s *settings) renderBatch(cmd *cobra.Command, results []driver.BatchResult) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	switch s.format {
	case "pretty", "short":
		for _, r := range results {
			if err := s.renderJob(stderr, r); err != nil {
				return err
			}
		}
		return diagfmt.Summary(stderr, summaryRows(results), diagfmt.SummaryOpts{})
	case "summary":
		return diagfmt.Summary(stdout, summaryRows(results), diagfmt.SummaryOpts{Rows: true})
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s.batchEntries(results))
	case "msgpack":
		enc := msgpack.NewEncoder(stdout)
		enc.UseCompactInts(true)
		return enc.Encode(s.batchEntries(results))
	case "sarif":
		merged, files := mergeVerdicts(results)
		return diagfmt.Sarif(stdout, merged, files, diagfmt.SarifRunMeta{
			ToolName:       "pace26check",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	default:
		return fmt.Errorf("unsupported format %q", s.format)
	}
}

// renderJob prints the diagnostics of one job; clean jobs stay silent.
func (s *settings) renderJob(w io.Writer, r driver.BatchResult) error {
	if r.Err != nil {
		_, err := fmt.Fprintf(w, "%s: %v\n", r.Job, r.Err)
		return err
	}
	res := r.Result
	if len(res.Verdict.Diagnostics) == 0 {
		return nil
	}
	if s.format == "short" {
		return diagfmt.Short(w, res.Verdict, res.Files, s.withNotes)
	}
	return diagfmt.Pretty(w, res.Verdict, res.Files, diagfmt.PrettyOpts{
		Color:     s.color,
		PathMode:  s.pathMode,
		ShowNotes: s.withNotes,
	})
}

func summaryRows(results []driver.BatchResult) []diagfmt.SummaryRow {
	rows := make([]diagfmt.SummaryRow, len(results))
	for i, r := range results {
		rows[i] = summaryRow(r.Job.Instance, r)
	}
	return rows
}

func (s *settings) batchEntries(results []driver.BatchResult) []batchEntry {
	entries := make([]batchEntry, len(results))
	for i, r := range results {
		e := batchEntry{
			Instance:  r.Job.Instance,
			Solution:  r.Job.Solution,
			ElapsedMS: float64(r.Elapsed.Microseconds()) / 1000,
		}
		switch {
		case r.Err != nil:
			e.Error = r.Err.Error()
		case r.Result != nil:
			out := s.verdictOutput(r.Result)
			e.Verdict = &out
		}
		entries[i] = e
	}
	return entries
}

// mergeVerdicts joins all job verdicts into one, for SARIF. Jobs of a batch
// share one FileSet, so spans stay resolvable.
func mergeVerdicts(results []driver.BatchResult) (diag.Verdict, *source.FileSet) {
	merged := diag.Verdict{OK: true}
	var files *source.FileSet
	for _, r := range results {
		if r.Result == nil {
			merged.OK = false
			continue
		}
		files = r.Result.Files
		merged.Diagnostics = append(merged.Diagnostics, r.Result.Verdict.Diagnostics...)
		merged.Dropped += r.Result.Verdict.Dropped
		merged.OK = merged.OK && r.Result.Verdict.OK
	}
	return merged, files
}

// readUIMode проверяет значение --ui
func readUIMode(cmd *cobra.Command) (string, error) {
	mode, err := cmd.Flags().GetString("ui")
	if err != nil {
		return "", fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "auto", "on", "off":
		return mode, nil
	default:
		return "", errors.New("ui must be auto, on or off")
	}
}

func shouldUseTUI(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(w)
	}
}
