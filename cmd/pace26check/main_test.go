package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samples = "../../testdata"

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the command tree against an empty config so a stray
// pace26check.toml above the test directory cannot leak in.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "pace26check.toml")
	if err := os.WriteFile(cfg, []byte("[check]\ncolor = \"off\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	full := append([]string{}, args...)
	full = append(full, "--config", cfg, "--no-cache")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func sample(parts ...string) string {
	return filepath.Join(append([]string{samples}, parts...)...)
}

func TestCheckAccepted(t *testing.T) {
	res := runCLI(t, "", "check", sample("vc", "path4.in"), sample("vc", "path4.out"), "--format", "json")
	if res.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	var out struct {
		OK             bool   `json:"ok"`
		Objective      *int64 `json:"objective"`
		InstanceDigest string `json:"instance_digest"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("stdout is not json: %v\n%s", err, res.stdout)
	}
	if !out.OK || out.Objective == nil || *out.Objective != 2 || out.InstanceDigest == "" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestCheckRejected(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"short", "VER5003"},
		{"pretty", "rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res := runCLI(t, "", "check", sample("rejected", "uncovered.in"), sample("rejected", "uncovered.out"), "--format", tt.format)
			if res.code != exitRejected {
				t.Fatalf("exit %d, want %d", res.code, exitRejected)
			}
			if !strings.Contains(res.stderr, tt.want) {
				t.Fatalf("stderr lacks %q:\n%s", tt.want, res.stderr)
			}
			if res.stdout != "" {
				t.Fatalf("human formats must not touch stdout, got %q", res.stdout)
			}
		})
	}
}

func TestLintStdin(t *testing.T) {
	res := runCLI(t, "p vc 2 1\n1 2\n", "lint", "-")
	if res.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	res = runCLI(t, "p vc 2 1\n", "lint", "-", "--format", "short")
	if res.code != exitRejected {
		t.Fatalf("truncated instance: exit %d", res.code)
	}
	if !strings.Contains(res.stderr, "<stdin>") {
		t.Fatalf("stdin not named in diagnostics:\n%s", res.stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"both stdin", []string{"check", "-", "-"}},
		{"missing file", []string{"lint", sample("vc", "missing.in")}},
		{"bad format", []string{"lint", sample("vc", "path4.in"), "--format", "yaml"}},
		{"bad ui", []string{"batch", samples, "--ui", "maybe"}},
		{"no args", []string{"check", sample("vc", "path4.in")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			if res.code != exitFailure {
				t.Fatalf("exit %d, want %d; stderr:\n%s", res.code, exitFailure, res.stderr)
			}
		})
	}
}

func TestBatch(t *testing.T) {
	res := runCLI(t, "", "batch", samples, "--ui", "off", "--format", "summary")
	if res.code != exitRejected {
		t.Fatalf("exit %d, the rejected samples must fail the batch", res.code)
	}
	if !strings.Contains(res.stdout, "checked:") {
		t.Fatalf("summary missing:\n%s", res.stdout)
	}

	res = runCLI(t, "", "batch", sample("vc"), sample("ocm"), "--ui", "off", "--format", "json", "-j", "2")
	if res.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	var entries []batchEntry
	if err := json.Unmarshal([]byte(res.stdout), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Error != "" || e.Verdict == nil || !e.Verdict.OK {
			t.Errorf("%s: %+v", e.Instance, e)
		}
	}
}

func TestDigest(t *testing.T) {
	first := runCLI(t, "", "digest", sample("vc", "path4.in"), sample("vc", "path4.out"))
	if first.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", first.code, first.stderr)
	}
	if lines := strings.Split(strings.TrimSpace(first.stdout), "\n"); len(lines) != 2 {
		t.Fatalf("want two digest lines, got:\n%s", first.stdout)
	}
	// reordered edges and comments do not change the instance digest
	again := runCLI(t, "c shuffled\np vc 4 3\n3 4\n2 1\n2 3\n", "digest", "-", "--json")
	if again.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", again.code, again.stderr)
	}
	var payload digestPayload
	if err := json.Unmarshal([]byte(again.stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(first.stdout, payload.Instance+" ") {
		t.Fatalf("digest depends on edge order: %q vs %q", first.stdout, payload.Instance)
	}

	rejected := runCLI(t, "", "digest", sample("rejected", "uncovered.in"), sample("rejected", "uncovered.out"))
	if rejected.code != exitRejected || rejected.stdout != "" {
		t.Fatalf("infeasible solution: exit %d, stdout %q", rejected.code, rejected.stdout)
	}
}

func TestDot(t *testing.T) {
	res := runCLI(t, "", "dot", sample("vc", "path4.in"), sample("vc", "path4.out"))
	if res.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "graph pace26 {") || !strings.Contains(res.stdout, "fillcolor") {
		t.Fatalf("unexpected dot:\n%s", res.stdout)
	}

	out := filepath.Join(t.TempDir(), "g.dot")
	res = runCLI(t, "", "dot", sample("maf", "tiny.in"), "-o", out, "--name", "tiny")
	if res.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cluster_") {
		t.Fatalf("trees not rendered as clusters:\n%s", data)
	}
}

func TestTracks(t *testing.T) {
	res := runCLI(t, "", "tracks", "--json")
	if res.code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	var tracks []trackPayload
	if err := json.Unmarshal([]byte(res.stdout), &tracks); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tr := range tracks {
		names[tr.Name] = true
	}
	for _, want := range []string{"vc", "wvc", "ds", "fvs", "ocm", "maf"} {
		if !names[want] {
			t.Errorf("track %q missing", want)
		}
	}

	table := runCLI(t, "", "tracks")
	if table.code != exitOK || !strings.Contains(table.stdout, "TRACK") {
		t.Fatalf("table output:\n%s", table.stdout)
	}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json", "--full")
	if res.code != exitOK {
		t.Fatalf("exit %d", res.code)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "pace26check" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload %+v", payload)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "pace26check.toml")
	if err := os.WriteFile(cfg, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"cache", "dir", "--cache-dir", dir, "--config", cfg}, nil, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != dir {
		t.Fatalf("cache dir %q, want %q", got, dir)
	}
	if code := run(context.Background(), []string{"cache", "drop", "--cache-dir", dir, "--config", cfg}, nil, &stdout, &stderr); code != exitOK {
		t.Fatalf("drop: exit %d, stderr:\n%s", code, stderr.String())
	}
	// без --cache-dir кэш выключен
	if code := run(context.Background(), []string{"cache", "dir", "--config", cfg}, nil, &stdout, &stderr); code != exitFailure {
		t.Fatalf("disabled cache: exit %d", code)
	}
}
