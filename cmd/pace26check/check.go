package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manpen/pace26checker/internal/driver"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <instance>",
		Short: "Validate an instance file",
		Long: `Lint parses an instance and checks it against the rules of its track.
Use "-" to read the instance from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], "")
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <instance> <solution>",
		Short: "Verify a solution against its instance",
		Long: `Check lints the instance, parses the solution and verifies it.
Either file (but not both) may be "-" to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1])
		},
	}
}

func runCheck(cmd *cobra.Command, instPath, solPath string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	stop, err := s.startProfiling(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer stop()

	res, err := checkPaths(cmd, s, instPath, solPath)
	if err != nil {
		return err
	}
	stop()
	return s.render(cmd, res, driver.Job{Instance: instPath, Solution: solPath}.String())
}

// checkPaths runs one check. Files go through CheckWithOptions and the
// cache; stdin is read in memory.
func checkPaths(cmd *cobra.Command, s *settings, instPath, solPath string) (*driver.Result, error) {
	ctx := cmd.Context()
	if instPath != "-" && solPath != "-" {
		return driver.CheckWithOptions(ctx, driver.Job{Instance: instPath, Solution: solPath}, s.opts)
	}
	if instPath == "-" && solPath == "-" {
		return nil, errors.New("instance and solution cannot both be read from stdin")
	}

	opts := s.opts
	opts.InstanceName, opts.SolutionName = displayName(instPath), displayName(solPath)

	inst, closeInst, err := openInput(cmd, instPath)
	if err != nil {
		return nil, fmt.Errorf("open instance: %w", err)
	}
	defer closeInst()
	if solPath == "" {
		return driver.LintReader(ctx, inst, opts)
	}
	sol, closeSol, err := openInput(cmd, solPath)
	if err != nil {
		return nil, fmt.Errorf("open solution: %w", err)
	}
	defer closeSol()
	return driver.CheckReader(ctx, inst, sol, opts)
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
