package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manpen/pace26checker/internal/track"
)

func write(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, `
[check]
paranoid = true
max_diagnostics = 50
format = "json"

[cache]
enabled = true
dir = "cache"

[log]
level = "debug"

[[track]]
name = "vc-simple"
base = "vc"
allow_loops = false
connected = true

[[track]]
name = "vc-simple-2"
base = "vc-simple"
version = 2
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Check.Paranoid || cfg.Check.MaxDiagnostics != 50 || cfg.Check.Format != "json" {
		t.Errorf("check = %+v", cfg.Check)
	}
	// defaults survive for keys the file does not set
	if cfg.Check.Color != "auto" || cfg.Log.Format != "console" || cfg.Log.Level != "debug" {
		t.Errorf("defaults lost: %+v %+v", cfg.Check, cfg.Log)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(dir, "cache") {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	s, err := reg.Lookup("vc-simple-2")
	if err != nil {
		t.Fatal(err)
	}
	if s.Version != 2 || !s.Rules.Connected || s.Verifier() != "vc" {
		t.Errorf("derived track = %+v", s)
	}
	if _, err := reg.Lookup("vc"); err != nil {
		t.Errorf("built-in track missing: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[check\n", "failed to parse TOML"},
		{"unknown key", "[check]\nparanoia = true\n", "unknown keys: check.paranoia"},
		{"format", "[check]\nformat = \"xml\"\n", "[check].format"},
		{"negative", "[check]\nmax_diagnostics = -1\n", "must not be negative"},
		{"color", "[check]\ncolor = \"always\"\n", "[check].color"},
		{"path mode", "[check]\npath_mode = \"short\"\n", "[check].path_mode \"short\" is not one of"},
		{"log level", "[log]\nlevel = \"loud\"\n", "[log].level"},
		{"track name", "[[track]]\nbase = \"vc\"\n", "name and base are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRegistryUnknownBase(t *testing.T) {
	cfg := Default()
	cfg.Tracks = []track.Override{{Name: "x", Base: "nope"}}
	if _, err := cfg.Registry(); err == nil {
		t.Fatal("unknown base accepted")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" {
		// a pace26check.toml above the temp dir would leak in here
		t.Skipf("found unrelated %s", cfg.Path)
	}

	p := write(t, root, "[check]\njobs = 3\n")
	cfg, err = Discover(nested, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != p || cfg.Check.Jobs != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}

	explicit := filepath.Join(t.TempDir(), "other.toml")
	if err := os.WriteFile(explicit, []byte("[check]\njobs = 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Discover(nested, explicit)
	if err != nil || cfg.Check.Jobs != 7 {
		t.Fatalf("explicit: %+v, %v", cfg, err)
	}
}
