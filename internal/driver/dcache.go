package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/digest"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/version"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// CacheKey identifies one verdict: both inputs, the options that influence
// the outcome, the track catalogue and the checker version.
type CacheKey [sha256.Size]byte

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// DiskCache stores verdicts of file checks, so re-checking unchanged inputs
// is a single read. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the msgpack record of one verdict. Spans refer to the
// inputs by slot: 0 is the instance, 1 the solution.
type CachePayload struct {
	Schema uint16

	OK          bool
	Diagnostics []diag.Diagnostic
	Dropped     int
	Stages      []Stage

	Feasible     bool
	Objective    int64
	HasObjective bool

	InstanceDigest digest.Digest
	SolutionDigest digest.Digest
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := key.String()
	// подкаталог по первому байту, чтобы не держать всё в одной директории
	return filepath.Join(c.dir, "verdicts", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *CachePayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key CacheKey, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode verdict: %w", err)
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheable: custom verifiers cannot be fingerprinted, timings differ per run.
func (o *Options) cacheable() bool {
	return o.Cache != nil && o.Verifiers == nil && !o.Timings
}

func cacheKey(opts Options, job Job) (CacheKey, error) {
	h := sha256.New()
	fmt.Fprintf(h, "pace26check %s schema=%d\n", version.Version, cacheSchemaVersion)
	fmt.Fprintf(h, "paranoid=%t max_diagnostics=%d max_line=%d\n", opts.Paranoid, opts.MaxDiagnostics, opts.MaxLine)

	tracks := opts.Tracks
	if tracks == nil {
		tracks = track.Default()
	}
	for _, spec := range tracks.All() {
		fmt.Fprintf(h, "%+v\n", *spec)
	}

	if err := hashFile(h, job.Instance); err != nil {
		return CacheKey{}, fmt.Errorf("open instance: %w", err)
	}
	if job.Solution == "" {
		_, _ = h.Write([]byte("no solution"))
	} else if err := hashFile(h, job.Solution); err != nil {
		return CacheKey{}, fmt.Errorf("open solution: %w", err)
	}

	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key, nil
}

// hashFile feeds the length-prefixed content digest of path into h.
func hashFile(h io.Writer, path string) error {
	// #nosec G304 -- path is a user supplied input file
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fh := sha256.New()
	n, err := io.Copy(fh, f)
	if err != nil {
		return err
	}
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(n)) // #nosec G115 -- io.Copy never returns a negative count
	_, _ = h.Write(size[:])
	_, _ = h.Write(fh.Sum(nil))
	return nil
}

func newPayload(res *Result) *CachePayload {
	hasSolution := slices.Contains(res.Stages, StageParseSolution)
	slots := func(id source.FileID) source.FileID {
		if hasSolution && id == res.SolutionFile {
			return 1
		}
		return 0
	}
	return &CachePayload{
		Schema:         cacheSchemaVersion,
		OK:             res.Verdict.OK,
		Diagnostics:    remapFiles(res.Verdict.Diagnostics, slots),
		Dropped:        res.Verdict.Dropped,
		Stages:         res.Stages,
		Feasible:       res.Feasible,
		Objective:      res.Objective,
		HasObjective:   res.HasObjective,
		InstanceDigest: res.InstanceDigest,
		SolutionDigest: res.SolutionDigest,
	}
}

// restore registers the files of job and rebuilds the result around them.
func (p *CachePayload) restore(files *source.FileSet, job Job) *Result {
	res := &Result{
		Stages:         p.Stages,
		Feasible:       p.Feasible,
		Objective:      p.Objective,
		HasObjective:   p.HasObjective,
		InstanceDigest: p.InstanceDigest,
		SolutionDigest: p.SolutionDigest,
		Cached:         true,
		Files:          files,
	}
	res.InstanceFile = files.Add(job.Instance, 0)
	if job.Solution != "" {
		res.SolutionFile = files.Add(job.Solution, 0)
	}
	ids := func(slot source.FileID) source.FileID {
		if slot == 1 {
			return res.SolutionFile
		}
		return res.InstanceFile
	}
	res.Verdict = diag.Verdict{
		OK:          p.OK,
		Diagnostics: remapFiles(p.Diagnostics, ids),
		Dropped:     p.Dropped,
	}
	return res
}

func remapFiles(in []diag.Diagnostic, m func(source.FileID) source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(in))
	for i, d := range in {
		d.Primary.File = m(d.Primary.File)
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = m(n.Span.File)
				notes[j] = n
			}
			d.Notes = notes
		}
		out[i] = d
	}
	return out
}
