package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manpen/pace26checker/internal/version"
)

// Exit codes: 0 accepted, 1 rejected, 2 the checker itself failed.
const (
	exitOK       = 0
	exitRejected = 1
	exitFailure  = 2
)

// errRejected is returned by commands whose verdict is not ok; the message
// has already been rendered.
var errRejected = errors.New("rejected")

// newRootCmd builds the command tree. Every call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pace26check",
		Short: "Validate PACE 2026 instances and solutions",
		Long: `pace26check lints instance files and verifies candidate solutions
against them. Every finding is reported as a diagnostic with a stable code;
the exit status is 0 exactly when the verdict is ok.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to pace26check.toml (default: search upwards from the working directory)")
	pf.String("color", "", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "only log errors")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (console|json)")
	pf.String("format", "", "output format (pretty|short|json|msgpack|sarif|summary)")
	pf.String("path-mode", "", "how to print file paths (auto|absolute|relative|basename)")
	pf.Bool("paranoid", false, "treat warnings as errors")
	pf.Bool("timings", false, "append stage timings to the verdict")
	pf.Bool("with-notes", true, "include diagnostic notes in output")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to report (0 = all)")
	pf.Int("max-line", 0, "maximum input line length in bytes (0 = default)")
	pf.Bool("no-cache", false, "do not read or write the verdict cache")
	pf.String("cache-dir", "", "verdict cache directory (enables the cache)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a runtime trace to file")

	root.AddCommand(
		newLintCmd(),
		newCheckCmd(),
		newBatchCmd(),
		newDigestCmd(),
		newDotCmd(),
		newTracksCmd(),
		newVersionCmd(),
		newCacheCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errRejected):
		return exitRejected
	default:
		fmt.Fprintf(stderr, "pace26check: %v\n", err)
		return exitFailure
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
