// Package driver runs the validation pipeline: parse the instance, lint it,
// parse the solution, verify it and aggregate every stage's diagnostics into
// one verdict. Each call owns all of its state.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/digest"
	"github.com/manpen/pace26checker/internal/instance"
	"github.com/manpen/pace26checker/internal/lint"
	"github.com/manpen/pace26checker/internal/logx"
	"github.com/manpen/pace26checker/internal/observ"
	"github.com/manpen/pace26checker/internal/solution"
	"github.com/manpen/pace26checker/internal/source"
	"github.com/manpen/pace26checker/internal/track"
	"github.com/manpen/pace26checker/internal/verify"
)

// ErrNoSolution is returned by CheckReader when no solution is given.
var ErrNoSolution = errors.New("no solution given")

const (
	defaultInstanceName = "<instance>"
	defaultSolutionName = "<solution>"
)

// Options configure a check. The zero value checks against the built-in tracks.
type Options struct {
	// Tracks resolves instance headers; nil selects track.Default().
	Tracks *track.Registry
	// Verifiers; nil selects verify.Default().
	Verifiers *verify.Registry

	// Paranoid raises every warning to an error.
	Paranoid bool
	// MaxDiagnostics caps the reported diagnostics, 0 means unlimited.
	// Cut diagnostics are counted in Verdict.Dropped and never flip the outcome.
	MaxDiagnostics int
	MaxLine        int

	// Files registers the inputs; nil gives every call its own set.
	Files *source.FileSet
	// Names used for in-memory inputs.
	InstanceName string
	SolutionName string

	Logger   *logx.Logger
	Observer PhaseObserver
	// Timings appends an OBS6001 info diagnostic with the stage durations.
	Timings bool

	// Cache is consulted by CheckWithOptions only.
	Cache *DiskCache

	// batch settings
	Jobs     int
	Progress ProgressSink
}

// Result is everything a check produced.
type Result struct {
	Verdict diag.Verdict
	// Stages is the path through the state machine, always ending in StageReport.
	Stages []Stage

	// nil on parse failure and for cached results
	Instance *instance.Instance
	Solution *solution.Solution

	Feasible     bool
	Objective    int64
	HasObjective bool

	InstanceDigest digest.Digest
	SolutionDigest digest.Digest

	Timings observ.Report
	Cached  bool

	Files        *source.FileSet
	InstanceFile source.FileID
	SolutionFile source.FileID
}

// Terminal returns the last stage before StageReport.
func (r *Result) Terminal() Stage {
	if len(r.Stages) < 2 {
		return StageStart
	}
	return r.Stages[len(r.Stages)-2]
}

// Lint validates an instance on its own.
func Lint(instanceBytes []byte) diag.Verdict {
	res, err := LintReader(context.Background(), bytes.NewReader(instanceBytes), Options{})
	if err != nil {
		return failedVerdict(err)
	}
	return res.Verdict
}

// Check validates an instance and a candidate solution.
func Check(instanceBytes, solutionBytes []byte) diag.Verdict {
	res, err := CheckReader(context.Background(), bytes.NewReader(instanceBytes), bytes.NewReader(solutionBytes), Options{})
	if err != nil {
		return failedVerdict(err)
	}
	return res.Verdict
}

// failedVerdict turns an environment failure into a rejecting verdict.
func failedVerdict(err error) diag.Verdict {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOReadError, source.Span{}, err.Error()))
	return diag.NewVerdict(bag)
}

// LintReader is Lint for a stream.
func LintReader(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	files := opts.files()
	instFile := files.AddVirtual(nameOr(opts.InstanceName, defaultInstanceName))
	return run(ctx, opts, files, r, instFile, nil, 0)
}

// CheckReader is Check for streams.
func CheckReader(ctx context.Context, inst, sol io.Reader, opts Options) (*Result, error) {
	if sol == nil {
		return nil, ErrNoSolution
	}
	files := opts.files()
	instFile := files.AddVirtual(nameOr(opts.InstanceName, defaultInstanceName))
	solFile := files.AddVirtual(nameOr(opts.SolutionName, defaultSolutionName))
	return run(ctx, opts, files, inst, instFile, sol, solFile)
}

// Job names the files of one check. An empty Solution lints the instance only.
type Job struct {
	Instance string
	Solution string
}

func (j Job) String() string {
	if j.Solution == "" {
		return j.Instance
	}
	return j.Instance + " " + j.Solution
}

// CheckWithOptions checks the files of job, consulting opts.Cache first.
func CheckWithOptions(ctx context.Context, job Job, opts Options) (*Result, error) {
	files := opts.files()
	log := opts.Logger.Named("driver").With(zap.String("instance", job.Instance))

	var key CacheKey
	useCache := opts.cacheable()
	if useCache {
		var err error
		key, err = cacheKey(opts, job)
		if err != nil {
			return nil, err
		}
		var payload CachePayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			log.Warn("ignoring unreadable cache entry", zap.Error(err))
		}
		if hit && payload.Schema == cacheSchemaVersion {
			log.Debug("cache hit", zap.Stringer("key", key))
			return payload.restore(files, job), nil
		}
	}

	instF, err := os.Open(job.Instance)
	if err != nil {
		return nil, fmt.Errorf("open instance: %w", err)
	}
	defer func() {
		if closeErr := instF.Close(); closeErr != nil {
			log.Warn("close instance", zap.Error(closeErr))
		}
	}()
	instFile := files.Add(job.Instance, 0)

	var sol io.Reader
	var solFile source.FileID
	if job.Solution != "" {
		solF, err := os.Open(job.Solution)
		if err != nil {
			return nil, fmt.Errorf("open solution: %w", err)
		}
		defer func() {
			if closeErr := solF.Close(); closeErr != nil {
				log.Warn("close solution", zap.Error(closeErr))
			}
		}()
		sol = solF
		solFile = files.Add(job.Solution, 0)
	}

	res, err := run(ctx, opts, files, instF, instFile, sol, solFile)
	if err != nil {
		return nil, err
	}
	if useCache {
		if err := opts.Cache.Put(key, newPayload(res)); err != nil {
			log.Warn("cannot store verdict", zap.Error(err))
		}
	}
	return res, nil
}

func (o *Options) files() *source.FileSet {
	if o.Files != nil {
		return o.Files
	}
	return source.NewFileSet()
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// pipeline is the state of one invocation.
type pipeline struct {
	ctx   context.Context
	opts  Options
	log   *logx.Logger
	timer *observ.Timer
	res   *Result
	bags  []*diag.Bag

	stage Stage
	phase int
}

func run(ctx context.Context, opts Options, files *source.FileSet, instR io.Reader, instFile source.FileID, solR io.Reader, solFile source.FileID) (*Result, error) {
	p := &pipeline{
		ctx:   ctx,
		opts:  opts,
		log:   opts.Logger.Named("driver"),
		timer: observ.NewTimer(),
		res: &Result{
			Stages:       []Stage{StageStart},
			Files:        files,
			InstanceFile: instFile,
			SolutionFile: solFile,
		},
		stage: StageStart,
		phase: -1,
	}
	if err := p.check(instR, solR); err != nil {
		p.closePhase()
		return nil, err
	}
	p.report()
	return p.res, nil
}

func (p *pipeline) check(instR, solR io.Reader) error {
	tracks := p.opts.Tracks
	if tracks == nil {
		tracks = track.Default()
	}
	verifiers := p.opts.Verifiers
	if verifiers == nil {
		verifiers = verify.Default()
	}

	if err := p.enter(StageParseInstance); err != nil {
		return err
	}
	inst, err := instance.Parse(instR, instance.Options{
		Registry: tracks,
		File:     p.res.InstanceFile,
		Files:    p.res.Files,
		MaxLine:  p.opts.MaxLine,
	}, p.reporter())
	if err != nil {
		return err
	}
	if inst == nil {
		return p.enter(StageParseFailed)
	}
	p.res.Instance = inst
	p.res.InstanceDigest = digest.Instance(inst)
	p.log.Debug("instance parsed", zap.Stringer("track", inst.Track), zap.Stringer("digest", p.res.InstanceDigest))

	if err := p.enter(StageLint); err != nil {
		return err
	}
	lint.Run(inst, p.reporter())

	if solR == nil {
		return p.enter(StageSolutionSkipped)
	}
	if err := p.enter(StageParseSolution); err != nil {
		return err
	}
	sol, err := solution.Parse(solR, inst, solution.Options{
		File:    p.res.SolutionFile,
		Files:   p.res.Files,
		MaxLine: p.opts.MaxLine,
	}, p.reporter())
	if err != nil {
		return err
	}
	if sol == nil {
		return p.enter(StageParseFailed)
	}
	p.res.Solution = sol

	if err := p.enter(StageVerify); err != nil {
		return err
	}
	out := verify.Run(verifiers, inst, sol, p.reporter())
	p.res.Feasible = out.Feasible
	p.res.Objective = out.Objective
	p.res.HasObjective = out.HasObjective
	// дайджест только у принятого сертификата: он кодирует счёт
	if out.Feasible && out.HasObjective && !p.hasErrors() {
		p.res.SolutionDigest = digest.Solution(inst, sol, out.Objective)
	}
	return nil
}

// hasErrors reports whether any stage so far produced a rejecting diagnostic.
func (p *pipeline) hasErrors() bool {
	for _, b := range p.bags {
		if b.HasErrors() {
			return true
		}
	}
	return false
}

// enter moves the state machine; the context is checked at every transition.
func (p *pipeline) enter(s Stage) error {
	if !CanFollow(p.stage, s) {
		panic(fmt.Sprintf("driver: illegal transition %s -> %s", p.stage, s))
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.closePhase()
	p.stage = s
	p.res.Stages = append(p.res.Stages, s)
	p.phase = p.timer.Begin(string(s))
	p.observe(PhaseEvent{Name: s, Status: PhaseStart})
	return nil
}

func (p *pipeline) closePhase() {
	if p.phase < 0 {
		return
	}
	dur := p.timer.End(p.phase, "")
	p.observe(PhaseEvent{Name: p.stage, Status: PhaseEnd, Elapsed: dur})
	p.phase = -1
}

func (p *pipeline) observe(ev PhaseEvent) {
	if p.opts.Observer != nil {
		p.opts.Observer(ev)
	}
}

// reporter opens the bag of the current stage.
func (p *pipeline) reporter() diag.Reporter {
	bag := diag.NewBag(0)
	p.bags = append(p.bags, bag)
	var r diag.Reporter = diag.BagReporter{Bag: bag}
	if p.opts.Paranoid {
		r = diag.NewPromoteReporter(r)
	}
	return r
}

func (p *pipeline) report() {
	start := time.Now()
	// report cannot fail; a cancelled context only stops earlier stages
	if !CanFollow(p.stage, StageReport) {
		panic(fmt.Sprintf("driver: illegal transition %s -> %s", p.stage, StageReport))
	}
	p.closePhase()
	p.stage = StageReport
	p.res.Stages = append(p.res.Stages, StageReport)
	p.phase = p.timer.Begin(string(StageReport))
	p.observe(PhaseEvent{Name: StageReport, Status: PhaseStart})

	v := diag.NewVerdict(p.bags...)
	limitVerdict(&v, p.opts.MaxDiagnostics)
	p.closePhase()

	p.res.Timings = p.timer.Report()
	if p.opts.Timings {
		appendTimingDiagnostic(&v, timingPayload{
			Kind:    string(p.res.Terminal()),
			Path:    p.res.Files.Get(p.res.InstanceFile).Path,
			TotalMS: p.res.Timings.TotalMS,
			Phases:  p.res.Timings.Phases,
		})
	}
	p.res.Verdict = v

	p.log.Info("checked",
		zap.Bool("ok", v.OK),
		zap.Int("errors", v.Errors()),
		zap.Int("warnings", v.Warnings()),
		zap.String("terminal", string(p.res.Terminal())),
		zap.Duration("report", time.Since(start)))
}

// limitVerdict cuts the list to max entries; OK is already decided.
func limitVerdict(v *diag.Verdict, max int) {
	if max <= 0 || len(v.Diagnostics) <= max {
		return
	}
	v.Dropped += len(v.Diagnostics) - max
	v.Diagnostics = v.Diagnostics[:max]
}
