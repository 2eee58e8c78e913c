package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/manpen/pace26checker/internal/dot"
)

func newDotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot <instance> [solution]",
		Short: "Render an instance (and a solution) as Graphviz DOT",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runDot,
	}
	cmd.Flags().StringP("output", "o", "", "write DOT to file instead of stdout")
	cmd.Flags().String("name", "", "name of the DOT graph")
	return cmd
}

func runDot(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}

	solPath := ""
	if len(args) == 2 {
		solPath = args[1]
	}
	// закэшированный результат не хранит сам граф
	s.opts.Cache = nil
	res, err := checkPaths(cmd, s, args[0], solPath)
	if err != nil {
		return err
	}
	if res.Instance == nil {
		return s.render(cmd, res, args[0])
	}
	if res.Solution == nil && solPath != "" {
		// рисуем граф без решения, но сообщаем причину
		if err := s.render(cmd, res, args[0]); err != nil && !errors.Is(err, errRejected) {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := dot.Write(w, res.Instance, res.Solution, dot.Options{Name: name}); err != nil {
		return fmt.Errorf("failed to write dot: %w", err)
	}
	return nil
}
