package track

import "fmt"

// Override is a user-defined track derived from a built-in one. Nil fields
// keep the base value. It mirrors a `[[track]]` table of the config file.
type Override struct {
	Name       string `toml:"name"`
	Base       string `toml:"base"`
	Version    *int   `toml:"version"`
	Directed   *bool  `toml:"directed"`
	AllowLoops *bool  `toml:"allow_loops"`
	AllowMulti *bool  `toml:"allow_multi"`
	NoIsolated *bool  `toml:"no_isolated"`
	MinDegree  *int   `toml:"min_degree"`
	Connected  *bool  `toml:"connected"`
}

// Derive builds a new spec from base with o applied.
func Derive(base *Spec, o Override) (*Spec, error) {
	if o.Name == "" {
		return nil, fmt.Errorf("derived track needs a name")
	}
	if base.Instance != GraphInstance && (o.Directed != nil || o.AllowLoops != nil || o.AllowMulti != nil ||
		o.NoIsolated != nil || o.MinDegree != nil || o.Connected != nil) {
		return nil, fmt.Errorf("track %q: graph rules do not apply to %s instances of %q", o.Name, base.Instance, base.Name)
	}

	s := *base
	s.Name = o.Name
	s.Base = base.Verifier()
	s.Params = append([]Param(nil), base.Params...)
	if o.Version != nil {
		if *o.Version <= 0 {
			return nil, fmt.Errorf("track %q: version must be positive", o.Name)
		}
		s.Version = *o.Version
		s.MinVer = *o.Version
	}
	if o.Directed != nil {
		s.Policy.Directed = *o.Directed
	}
	if o.AllowLoops != nil {
		s.Policy.AllowLoops = *o.AllowLoops
	}
	if o.AllowMulti != nil {
		s.Policy.AllowMulti = *o.AllowMulti
	}
	if o.NoIsolated != nil {
		s.Rules.NoIsolated = *o.NoIsolated
	}
	if o.MinDegree != nil {
		if *o.MinDegree < 0 {
			return nil, fmt.Errorf("track %q: min_degree must not be negative", o.Name)
		}
		s.Rules.MinDegree = *o.MinDegree
	}
	if o.Connected != nil {
		s.Rules.Connected = *o.Connected
	}
	return &s, nil
}

// Apply derives and registers every override. Bases are looked up in r, so an
// override may build on an earlier one.
func (r *Registry) Apply(overrides []Override) error {
	for _, o := range overrides {
		base, err := r.Lookup(o.Base)
		if err != nil {
			return fmt.Errorf("track %q: base: %w", o.Name, err)
		}
		s, err := Derive(base, o)
		if err != nil {
			return err
		}
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}
