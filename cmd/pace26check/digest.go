package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type digestPayload struct {
	Instance  string `json:"instance"`
	Solution  string `json:"solution,omitempty"`
	Objective *int64 `json:"objective,omitempty"`
}

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest <instance> [solution]",
		Short: "Print the content digests of an instance and a solution",
		Long: `Digest prints a fingerprint of the instance that does not depend on
edge order, comments or formatting. With a feasible solution it also prints
the solution digest, whose leading bytes encode the objective.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runDigest,
	}
	cmd.Flags().Bool("json", false, "print digests as JSON")
	return cmd
}

func runDigest(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	solPath := ""
	if len(args) == 2 {
		solPath = args[1]
	}
	res, err := checkPaths(cmd, s, args[0], solPath)
	if err != nil {
		return err
	}
	if !res.Verdict.OK || res.InstanceDigest.IsZero() || (solPath != "" && res.SolutionDigest.IsZero()) {
		// отклонённый сертификат не получает дайджест: показываем, почему
		if err := s.render(cmd, res, args[0]); err != nil {
			return err
		}
		return errRejected
	}

	out := cmd.OutOrStdout()
	if asJSON {
		payload := digestPayload{Instance: res.InstanceDigest.String()}
		if solPath != "" {
			payload.Solution = res.SolutionDigest.String()
			objective := res.Objective
			payload.Objective = &objective
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	fmt.Fprintf(out, "%s  %s\n", res.InstanceDigest, args[0])
	if solPath != "" {
		fmt.Fprintf(out, "%s  %s\n", res.SolutionDigest, solPath)
	}
	return nil
}
