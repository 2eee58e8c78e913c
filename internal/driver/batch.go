package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one job of a batch. Err is set when the job
// could not run at all, e.g. because a file is missing.
type BatchResult struct {
	Job     Job
	Result  *Result
	Err     error
	Elapsed time.Duration
}

// OK reports whether the job ran and was accepted.
func (r BatchResult) OK() bool {
	return r.Err == nil && r.Result != nil && r.Result.Verdict.OK
}

// CheckBatch runs independent checks in parallel. Results are stored by job
// index, so the output order does not depend on scheduling. Only cancellation
// of ctx aborts the batch; per-job failures end up in BatchResult.Err.
func CheckBatch(ctx context.Context, jobs []Job, opts Options) ([]BatchResult, error) {
	results := make([]BatchResult, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	// общий FileSet, чтобы все диагностики резолвились через один набор
	if opts.Files == nil {
		opts.Files = opts.files()
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	for i, job := range jobs {
		results[i].Job = job
		emit(opts.Progress, Event{Job: job.Instance, Stage: StageStart, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(jobs)))

	for i, job := range jobs {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			jobOpts := opts
			jobOpts.Observer = jobObserver(opts, job)
			emit(opts.Progress, Event{Job: job.Instance, Stage: StageStart, Status: StatusWorking})

			start := time.Now()
			res, err := CheckWithOptions(gctx, job, jobOpts)
			elapsed := time.Since(start)

			// индекс i уникален, мьютекс не нужен
			results[i].Result = res
			results[i].Err = err
			results[i].Elapsed = elapsed

			switch {
			case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
				emit(opts.Progress, Event{Job: job.Instance, Stage: StageReport, Status: StatusError, Err: err, Elapsed: elapsed})
				return err
			case err != nil:
				opts.Logger.Named("batch").Warn("job failed", zap.String("job", job.String()), zap.Error(err))
				emit(opts.Progress, Event{Job: job.Instance, Stage: StageReport, Status: StatusError, Err: err, Elapsed: elapsed})
			case res.Verdict.OK:
				emit(opts.Progress, Event{Job: job.Instance, Stage: StageReport, Status: StatusDone, Elapsed: elapsed})
			default:
				emit(opts.Progress, Event{Job: job.Instance, Stage: StageReport, Status: StatusFailed, Elapsed: elapsed})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func jobObserver(opts Options, job Job) PhaseObserver {
	return func(ev PhaseEvent) {
		if opts.Observer != nil {
			opts.Observer(ev)
		}
		if ev.Status == PhaseStart && ev.Name != StageReport {
			emit(opts.Progress, Event{Job: job.Instance, Stage: ev.Name, Status: StatusWorking})
		}
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// DiscoverJobs pairs every `<name>.in` (or `.gr`) below dir with a solution
// `<name>.out` (or `.sol`) next to it. Instances without a solution become
// lint-only jobs. The result is sorted by instance path.
func DiscoverJobs(dir string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".in" && ext != ".gr" {
			return nil
		}
		job := Job{Instance: path}
		stem := strings.TrimSuffix(path, ext)
		for _, solExt := range []string{".out", ".sol"} {
			if st, err := os.Stat(stem + solExt); err == nil && !st.IsDir() {
				job.Solution = stem + solExt
				break
			}
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Instance < jobs[j].Instance })
	return jobs, nil
}
