package track

import (
	"errors"
	"slices"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{in: "vc", want: Ref{Name: "vc"}},
		{in: "ds/2", want: Ref{Name: "ds", Version: 2, HasVersion: true}},
		{in: "", wantErr: true},
		{in: "/1", wantErr: true},
		{in: "vc/", wantErr: true},
		{in: "vc/0", wantErr: true},
		{in: "vc/x", wantErr: true},
		{in: "VC", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRef(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	want := []string{"ds", "fvs", "maf", "ocm", "vc", "wvc"}
	if got := r.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	fvs, err := r.Lookup("fvs")
	if err != nil {
		t.Fatal(err)
	}
	if !fvs.Policy.Directed || !fvs.Policy.AllowLoops {
		t.Errorf("fvs policy = %s", fvs.Policy)
	}
	if _, ok := fvs.Param(BoundParam); !ok {
		t.Errorf("fvs must accept the bound parameter")
	}

	maf, _ := r.Lookup(Tree)
	if maf.Instance != TreeInstance || maf.Solution != Forest {
		t.Errorf("maf kinds = %s/%s", maf.Instance, maf.Solution)
	}
}

func TestResolveVersions(t *testing.T) {
	r := Default()
	if _, err := r.Resolve(Ref{Name: "nope"}); !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("unknown track: %v", err)
	}
	if _, err := r.Resolve(Ref{Name: "vc", Version: 2, HasVersion: true}); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("vc/2: %v", err)
	}
	for _, v := range []int{1, 2} {
		if _, err := r.Resolve(Ref{Name: "ds", Version: v, HasVersion: true}); err != nil {
			t.Fatalf("ds/%d: %v", v, err)
		}
	}
	if s, err := r.Resolve(Ref{Name: "ds"}); err != nil || s.Version != 2 {
		t.Fatalf("ds without version: %v %v", s, err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := Default()
	if err := r.Register(&Spec{Name: "vc"}); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := r.Register(&Spec{}); err == nil {
		t.Fatalf("empty name must fail")
	}
}

func TestApplyOverrides(t *testing.T) {
	yes := true
	two := 2
	r := Default()
	err := r.Apply([]Override{
		{Name: "vc-multi", Base: "vc", AllowMulti: &yes, MinDegree: &two},
		{Name: "vc-multi-conn", Base: "vc-multi", Connected: &yes},
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.Lookup("vc-multi-conn")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Policy.AllowMulti || s.Rules.MinDegree != 2 || !s.Rules.Connected {
		t.Errorf("derived spec lost settings: %+v", s)
	}
	if s.Verifier() != "vc" {
		t.Errorf("Verifier() = %q, want vc", s.Verifier())
	}
	base, _ := r.Lookup("vc")
	if base.Policy.AllowMulti || base.Rules.Connected {
		t.Errorf("base spec mutated: %+v", base)
	}
}

func TestApplyRejectsGraphRulesOnTrees(t *testing.T) {
	yes := true
	r := Default()
	err := r.Apply([]Override{{Name: "maf2", Base: Tree, Directed: &yes}})
	if err == nil {
		t.Fatalf("graph overrides on the tree track must fail")
	}
	if err := r.Apply([]Override{{Name: "x", Base: "missing"}}); !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("missing base: %v", err)
	}
}
