package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"stripgen/internal/normalize"
	"stripgen/internal/project"
	"stripgen/internal/trace"
)

// StripPaths normalizes every file found under paths. Per-file failures are
// recorded in the results; the returned error is reserved for failures of
// the batch itself (bad arguments, cancellation).
func StripPaths(ctx context.Context, paths []string, opts StripOptions) ([]StripResult, error) {
	span := trace.Begin(ctx, trace.ScopeDriver, "strip_paths")
	ctx = trace.WithSpan(ctx, span)
	defer func() { span.End("") }()

	stage := StageStrip
	if opts.Check {
		stage = StageCheck
	}

	scan := trace.Begin(ctx, trace.ScopePhase, "scan")
	targets, err := collectTargets(paths, opts.Include, opts.Exclude, opts.OutDir)
	scan.WithExtra("files", strconv.Itoa(len(targets))).End("")
	if err != nil {
		trace.Error(ctx, "scan", err)
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(targets)))
	if len(targets) == 0 {
		return nil, nil
	}

	results, err := stripTargets(ctx, targets, opts, stage)
	if err != nil {
		return results, err
	}
	sum := Summarize(results)
	span.WithExtra("rewritten", strconv.Itoa(sum.Rewritten)).
		WithExtra("errors", strconv.Itoa(sum.Errors))
	return results, nil
}

// stripTargets runs the worker pool over already expanded targets.
func stripTargets(ctx context.Context, targets []target, opts StripOptions, stage Stage) ([]StripResult, error) {
	for _, t := range targets {
		emit(opts.Progress, Event{File: t.in, Stage: stage, Status: StatusQueued})
	}

	enc := opts.Encoding
	if enc == nil {
		enc = normalize.DefaultEncoding()
	}
	w := &worker{
		norm:  normalize.New(opts.Signatures, enc),
		check: opts.Check,
		cache: opts.Cache,
		sink:  opts.Progress,
		stage: stage,
	}
	if w.cache != nil {
		w.fingerprint = project.Fingerprint(opts.Signatures, normalize.EncodingName(enc))
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]StripResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(targets)))
	for i, t := range targets {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = w.run(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

type worker struct {
	norm        *normalize.Normalizer
	check       bool
	cache       *DiskCache
	fingerprint project.Digest
	sink        ProgressSink
	stage       Stage
}

func (w *worker) run(ctx context.Context, t target) StripResult {
	begin := time.Now()
	span := trace.Begin(ctx, trace.ScopeFile, t.in)
	ctx = trace.WithSpan(ctx, span)
	emit(w.sink, Event{File: t.in, Stage: w.stage, Status: StatusWorking})

	res := w.process(ctx, t)
	res.Elapsed = time.Since(begin)

	status := StatusDone
	switch {
	case res.Err != nil:
		status = StatusError
		trace.Error(ctx, t.in, res.Err)
	case res.Cached:
		status = StatusCached
	}
	span.WithExtra("outcome", res.Outcome.String())
	if res.Signature != "" {
		span.WithExtra("signature", res.Signature)
	}
	span.End(string(status))
	emit(w.sink, Event{File: t.in, Stage: w.stage, Status: status, Err: res.Err, Elapsed: res.Elapsed})
	return res
}

func (w *worker) process(ctx context.Context, t target) StripResult {
	res := StripResult{Path: t.in, Output: t.out}

	src, perm, err := normalize.ReadSource(t.in)
	if err != nil {
		res.Err = err
		return res
	}

	var key project.Digest
	if w.cache != nil {
		key = cacheKey(src, w.fingerprint)
		entry, ok, cerr := w.cache.Get(key)
		if cerr != nil {
			// битая запись - просто пересчитываем
			trace.Point(ctx, trace.ScopeDetail, "cache_error", cerr.Error())
		}
		if ok && entry.upToDate(t.out) {
			res.Cached = true
			res.Outcome = normalize.Outcome(entry.Outcome)
			res.Signature = entry.Signature
			return res
		}
	}

	// Bytes, not File: check mode must not write, unchanged outputs are left
	// untouched and the cache records the produced bytes
	data, nres, err := w.norm.Bytes(src)
	res.Outcome = nres.Outcome
	res.Dropped = nres.Dropped
	if nres.Signature != nil {
		res.Signature = nres.Signature.Name
	}
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", t.in, err)
		return res
	}

	res.Changed, err = differs(t.out, data)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", t.out, err)
		return res
	}
	if w.check {
		if !res.Changed {
			w.remember(ctx, key, res, data)
		}
		return res
	}
	if res.Changed {
		if err := os.MkdirAll(filepath.Dir(t.out), 0o755); err != nil {
			res.Err = fmt.Errorf("write %s: %w", t.out, err)
			return res
		}
		if err := normalize.WriteFileAtomic(t.out, data, perm); err != nil {
			res.Err = fmt.Errorf("write %s: %w", t.out, err)
			return res
		}
	}
	w.remember(ctx, key, res, data)
	return res
}

// remember stores the produced output in the cache. Failures only show up in
// the trace.
func (w *worker) remember(ctx context.Context, key project.Digest, res StripResult, data []byte) {
	if w.cache == nil {
		return
	}
	entry, err := newCacheEntry(uint8(res.Outcome), res.Signature, data)
	if err == nil {
		err = w.cache.Put(key, entry)
	}
	if err != nil {
		trace.Point(ctx, trace.ScopeDetail, "cache_error", err.Error())
	}
}

// differs reports whether path is missing or holds bytes other than data.
func differs(path string, data []byte) (bool, error) {
	// #nosec G304 -- path is produced by the driver
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return !bytes.Equal(existing, data), nil
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
