package track

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps track names to descriptors. It is filled once and then only
// read, so concurrent lookups are safe.
type Registry struct {
	mu     sync.RWMutex
	specs  []*Spec
	byName map[string]int // name -> index into specs
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs:  make([]*Spec, 0),
		byName: make(map[string]int),
	}
}

// Default returns a registry holding the built-in tracks.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range Builtins() {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds s. Names are unique.
func (r *Registry) Register(s *Spec) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("track: empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[s.Name]; dup {
		return fmt.Errorf("track %q already registered", s.Name)
	}
	r.byName[s.Name] = len(r.specs)
	r.specs = append(r.specs, s)
	return nil
}

// Lookup returns the track called name or ErrUnknownTrack.
func (r *Registry) Lookup(name string) (*Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTrack, name)
	}
	return r.specs[idx], nil
}

// Resolve looks up ref and checks its version. A ref without version means
// the current version.
func (r *Registry) Resolve(ref Ref) (*Spec, error) {
	s, err := r.Lookup(ref.Name)
	if err != nil {
		return nil, err
	}
	if ref.HasVersion && !s.Supports(ref.Version) {
		return nil, fmt.Errorf("%w: %s/%d (supported %d..%d)", ErrUnsupportedVersion, s.Name, ref.Version, s.MinVer, s.Version)
	}
	return s, nil
}

// All returns the registered tracks in registration order.
func (r *Registry) All() []*Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Spec(nil), r.specs...)
}

// Names returns the sorted track names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		names = append(names, s.Name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered tracks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
