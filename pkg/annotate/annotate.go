package annotate

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/git"
	"github.com/naveego/anb/pkg/issues"
	"github.com/naveego/anb/pkg/util/multierr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Annotator lists branches, extracts identifiers and looks each one up.
type Annotator struct {
	Lister    git.BranchLister
	Tracker   issues.IssueGetter
	Extractor *issues.Extractor
	// Strict aborts on the first failed lookup instead of collecting failures.
	Strict bool
	// Concurrency is the maximum number of lookups in flight. Values below 2
	// run lookups one at a time.
	Concurrency int
	Log         *logrus.Entry
}

// Failure is a lookup that did not produce a record.
type Failure struct {
	Ref issues.Ref
	Err error
}

type Result struct {
	Refs     []issues.Ref
	Records  []issues.Record
	Failures []Failure
}

// Err combines all failures, or returns nil if every lookup succeeded.
func (r *Result) Err() error {
	collector := multierr.New()
	for _, f := range r.Failures {
		collector.Collect(f.Err)
	}
	return collector.ToError()
}

// Run executes the pipeline. Records and failures are both in extraction order.
// In strict mode the first failure (in extraction order) is returned as the
// error and the result is nil.
func (a Annotator) Run(ctx context.Context) (*Result, error) {
	log := a.Log
	if log == nil {
		log = core.Log
	}
	log = log.WithField("cmp", "annotate")

	if a.Extractor == nil {
		return nil, core.ConfigErrorf("no identifier extractor configured")
	}

	branches, err := a.Lister.Branches(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list branches")
	}

	refs := a.Extractor.FromBranches(branches)
	log.WithField("branches", len(branches)).WithField("refs", len(refs)).Debug("Extracted identifiers.")

	outcomes, err := a.fetchAll(ctx, refs)
	if err != nil {
		return nil, err
	}

	result := &Result{Refs: refs}
	for i, o := range outcomes {
		if o.err != nil {
			log.WithField("id", refs[i].ID).WithError(o.err).Debug("Lookup failed.")
			result.Failures = append(result.Failures, Failure{Ref: refs[i], Err: o.err})
			continue
		}
		result.Records = append(result.Records, o.record)
	}

	return result, nil
}

type outcome struct {
	record issues.Record
	err    error
}

// fetchAll looks up every ref, storing each outcome at its ref's index. In
// strict mode it stops at the first failure in ref order and returns it.
func (a Annotator) fetchAll(ctx context.Context, refs []issues.Ref) ([]outcome, error) {
	outcomes := make([]outcome, len(refs))

	if a.Concurrency < 2 {
		for i, ref := range refs {
			outcomes[i] = a.fetch(ctx, ref)
			if outcomes[i].err != nil && a.Strict {
				return nil, outcomes[i].err
			}
		}
		return outcomes, nil
	}

	if !a.Strict {
		pool := workerpool.New(a.Concurrency)
		for i, ref := range refs {
			i, ref := i, ref
			pool.Submit(func() {
				outcomes[i] = a.fetch(ctx, ref)
			})
		}
		pool.StopWait()
		return outcomes, nil
	}

	gate := newFailureGate(ctx, len(refs))
	defer gate.release()

	pool := workerpool.New(a.Concurrency)
	for i, ref := range refs {
		i, ref := i, ref
		pool.Submit(func() {
			taskCtx, ok := gate.start(i)
			if !ok {
				return
			}
			o := a.fetch(taskCtx, ref)
			if o.err != nil {
				gate.fail(i)
			}
			outcomes[i] = o
		})
	}
	pool.StopWait()

	if first := gate.first(); first < len(refs) {
		return nil, outcomes[first].err
	}
	return outcomes, nil
}

// failureGate tracks the lowest failed index of a strict run. Lookups after
// that index are skipped or cancelled; lookups before it run to completion,
// since one of them may still turn out to be the first failure.
type failureGate struct {
	mu      sync.Mutex
	ctx     context.Context
	cancels []context.CancelFunc
	lowest  int
}

func newFailureGate(ctx context.Context, n int) *failureGate {
	return &failureGate{
		ctx:     ctx,
		cancels: make([]context.CancelFunc, n),
		lowest:  n,
	}
}

func (g *failureGate) start(i int) (context.Context, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i > g.lowest {
		return nil, false
	}
	ctx, cancel := context.WithCancel(g.ctx)
	g.cancels[i] = cancel
	return ctx, true
}

func (g *failureGate) fail(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i >= g.lowest {
		return
	}
	g.lowest = i
	for _, cancel := range g.cancels[i+1:] {
		if cancel != nil {
			cancel()
		}
	}
}

func (g *failureGate) first() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lowest
}

func (g *failureGate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, cancel := range g.cancels {
		if cancel != nil {
			cancel()
		}
	}
}

func (a Annotator) fetch(ctx context.Context, ref issues.Ref) outcome {
	record, err := a.Tracker.GetIssue(ctx, ref)
	if err != nil {
		return outcome{err: err}
	}
	return outcome{record: record}
}
