// Package batch drives the rule engine across many accounts. Items run on a
// bounded worker pool and fail independently: every input gets exactly one
// outcome, in input order, carrying its own error if any.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/propfund/catalog"
	"github.com/rustyeddy/propfund/domain"
	"github.com/rustyeddy/propfund/label"
	"github.com/rustyeddy/propfund/risk"
	"github.com/rustyeddy/propfund/rules"
)

// Account is one terminal account captured by the adapter.
type Account struct {
	ID       string                 `json:"id" yaml:"id"`
	Server   string                 `json:"server" yaml:"server"`
	Label    string                 `json:"label" yaml:"label"`
	Snapshot domain.AccountSnapshot `json:"snapshot" yaml:"snapshot"`
}

type Outcome struct {
	AccountID  string                 `json:"account_id"`
	Enrollment *catalog.Enrollment    `json:"enrollment,omitempty"`
	Snapshot   domain.AccountSnapshot `json:"snapshot"`
	Report     rules.Report           `json:"report"`
	Err        error                  `json:"-"`
}

type SizingJob struct {
	AccountID string       `json:"account_id" yaml:"account_id"`
	Locked    bool         `json:"locked" yaml:"locked"`
	Request   risk.Request `json:"-" yaml:"-"`
	Margin    risk.Margin  `json:"-" yaml:"-"`
}

type SizingOutcome struct {
	AccountID string        `json:"account_id"`
	Sizing    risk.Sizing   `json:"sizing"`
	Decision  risk.Decision `json:"decision"`
	Err       error         `json:"-"`
}

type Evaluator struct {
	catalog *catalog.Catalog
	policy  risk.Policy
	workers int
	log     *slog.Logger
}

type Option func(*Evaluator)

func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.log = l
		}
	}
}

func WithPolicy(p risk.Policy) Option {
	return func(e *Evaluator) { e.policy = p }
}

func NewEvaluator(c *catalog.Catalog, opts ...Option) *Evaluator {
	e := &Evaluator{
		catalog: c,
		workers: runtime.NumCPU(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate checks every account against its fund rules.
func (e *Evaluator) Evaluate(ctx context.Context, accounts []Account) []Outcome {
	out := run(ctx, e.workers, accounts, e.evaluate, func(a Account, err error) Outcome {
		return Outcome{AccountID: a.ID, Snapshot: a.Snapshot, Err: err}
	})

	var locked, failed int
	for _, o := range out {
		if o.Report.Compliance.Locked {
			locked++
		}
		if o.Err != nil {
			failed++
			e.log.Warn("account evaluation failed", "account", o.AccountID, "err", o.Err)
		}
	}
	e.log.Info("evaluated accounts", "accounts", len(out), "locked", locked, "failed", failed)
	return out
}

func (e *Evaluator) evaluate(a Account) Outcome {
	o := Outcome{AccountID: a.ID, Snapshot: a.Snapshot}
	snap := &o.Snapshot

	if snap.ProgramID == nil && e.catalog != nil {
		if en, ok := e.catalog.Enroll(a.Server, a.Label); ok {
			id := en.ProgramID
			snap.ProgramID = &id
			if snap.Phase == "" {
				snap.Phase = en.Phase
			}
			o.Enrollment = &en
			e.log.Debug("enrolled account", "account", a.ID, "fund", en.Fund, "program", en.Program, "phase", en.Phase, "classified", en.Classified)
		}
	}

	if snap.StartingBalance <= 0 {
		if v, ok := label.ParseBalance(a.Label); ok {
			snap.StartingBalance = v
		} else {
			snap.StartingBalance = snap.Balance
		}
	}
	if snap.DailyStartingEquity <= 0 {
		snap.DailyStartingEquity = snap.Balance
	}

	var program *domain.Program
	if snap.ProgramID != nil && e.catalog != nil {
		program, _, _ = e.catalog.Program(*snap.ProgramID)
	}

	o.Report = rules.BuildReport(*snap, program)
	o.Err = o.Report.Compliance.Err
	return o
}

// Size computes order sizes and the pre-trade decision for every job.
func (e *Evaluator) Size(ctx context.Context, jobs []SizingJob) []SizingOutcome {
	out := run(ctx, e.workers, jobs, e.size, func(j SizingJob, err error) SizingOutcome {
		return SizingOutcome{AccountID: j.AccountID, Err: err}
	})

	var failed int
	for _, o := range out {
		if o.Err != nil {
			failed++
			e.log.Warn("sizing failed", "account", o.AccountID, "err", o.Err)
		}
	}
	e.log.Info("sized orders", "orders", len(out), "failed", failed)
	return out
}

func (e *Evaluator) size(j SizingJob) SizingOutcome {
	o := SizingOutcome{AccountID: j.AccountID}
	s, err := risk.SizePosition(j.Request)
	if err != nil {
		o.Err = err
		return o
	}
	o.Sizing = s
	o.Decision = risk.Check(e.policy, s, j.Locked, j.Margin)
	return o
}

// run applies fn to every item on at most workers goroutines. Items not yet
// started when ctx is done get skip(item, ctx.Err()); a panic in fn becomes
// that item's error.
func run[T, R any](ctx context.Context, workers int, items []T, fn func(T) R, skip func(T, error) R) []R {
	out := make([]R, len(items))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			out[i] = skip(item, err)
			continue
		}
		i, item := i, item
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					out[i] = skip(item, fmt.Errorf("panic: %v", r))
				}
			}()
			if err := ctx.Err(); err != nil {
				out[i] = skip(item, err)
				return nil
			}
			out[i] = fn(item)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
