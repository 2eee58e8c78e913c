package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/manpen/pace26checker/internal/track"
)

type trackPayload struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Base     string   `json:"base,omitempty"`
	Version  int      `json:"version"`
	MinVer   int      `json:"min_version"`
	Instance string   `json:"instance"`
	Solution string   `json:"solution"`
	Scoring  string   `json:"scoring"`
	Policy   string   `json:"policy"`
	Params   []string `json:"params,omitempty"`
}

func newTracksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List the known tracks",
		Long:  `Tracks lists the built-in tracks together with those derived in pace26check.toml.`,
		Args:  cobra.NoArgs,
		RunE:  runTracks,
	}
	cmd.Flags().Bool("json", false, "print tracks as JSON")
	return cmd
}

func runTracks(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	specs := s.opts.Tracks.All()
	payload := make([]trackPayload, len(specs))
	for i, spec := range specs {
		payload[i] = describeTrack(spec)
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	header := lipgloss.NewStyle().Bold(true)
	if s.color {
		header = header.Foreground(lipgloss.Color("12"))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TRACK", "VERSION", "TITLE", "INSTANCE", "SOLUTION", "SCORING", "POLICY", "PARAMS").
		StyleFunc(func(row, col int) lipgloss.Style {
			// в этой версии lipgloss шапка приходит как строка 0
			if row == 0 {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, p := range payload {
		name := p.Name
		if p.Base != "" {
			name += " (" + p.Base + ")"
		}
		versions := strconv.Itoa(p.Version)
		if p.MinVer < p.Version {
			versions = strconv.Itoa(p.MinVer) + ".." + versions
		}
		t.Row(name, versions, p.Title, p.Instance, p.Solution, p.Scoring, p.Policy, strings.Join(p.Params, " "))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}

func describeTrack(spec *track.Spec) trackPayload {
	p := trackPayload{
		Name:     spec.Name,
		Title:    spec.Title,
		Base:     spec.Base,
		Version:  spec.Version,
		MinVer:   spec.MinVer,
		Instance: spec.Instance.String(),
		Solution: spec.Solution.String(),
		Scoring:  spec.Scoring.String(),
		Policy:   spec.Policy.String(),
	}
	for _, param := range spec.Params {
		name := param.Name
		if param.Required {
			name += "="
		} else {
			name = "[" + name + "=]"
		}
		p.Params = append(p.Params, name)
	}
	return p
}
