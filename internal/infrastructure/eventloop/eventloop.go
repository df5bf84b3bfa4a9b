// Package eventloop runs every session event on one goroutine, so the
// controller and registry are only ever touched by a single owner.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxconverter/internal/application"
	"fxconverter/internal/infrastructure/logx"

	"go.uber.org/zap"
)

var ErrStopped = errors.New("event loop stopped")

type Kind string

const (
	KindAmount    Kind = "amount"
	KindCurrency  Kind = "currency"
	KindReset     Kind = "reset"
	KindAddRow    Kind = "add_row"
	KindRecompute Kind = "recompute"
)

// Event is one user interaction. Row is ignored for KindAddRow; Value is
// ignored for KindReset and KindRecompute.
type Event struct {
	Kind  Kind
	Row   int
	Value string
}

// Session is the part of application.Session the loop drives.
type Session interface {
	OnRowChanged(application.Change) (application.Render, error)
	RecomputeFrom(id int) (application.Render, error)
	Reset(id int) (application.Render, error)
	AddRow(code string) (application.Render, error)
	Snapshot() application.Snapshot
}

type Observer interface {
	ObserveEvent(kind string, elapsed time.Duration, err error)
}

type job struct {
	kind  string
	run   func(Session) (application.Render, error)
	reply chan result
}

type result struct {
	render application.Render
	err    error
}

type Loop struct {
	session  Session
	jobs     chan job
	done     chan struct{}
	observer Observer
	log      *zap.Logger
}

type Option func(*Loop)

func WithObserver(o Observer) Option   { return func(l *Loop) { l.observer = o } }
func WithLogger(lg *zap.Logger) Option { return func(l *Loop) { l.log = lg } }
func WithQueue(n int) Option {
	return func(l *Loop) {
		if n >= 0 {
			l.jobs = make(chan job, n)
		}
	}
}

func New(s Session, opts ...Option) *Loop {
	l := &Loop{session: s, jobs: make(chan job), done: make(chan struct{})}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logx.L()
	}
	return l
}

// Start processes events until ctx is cancelled. It must be called exactly once.
func (l *Loop) Start(ctx context.Context) {
	log := l.log.With(zap.String("worker", "eventloop"))
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			log.Info("eventloop.stop")
			return
		case j := <-l.jobs:
			j.reply <- l.processOne(j)
		}
	}
}

func (l *Loop) processOne(j job) (res result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn("eventloop.panic", zap.String("kind", j.kind), zap.Any("r", r))
			res = result{err: fmt.Errorf("panic: %v", r)}
		}
		if l.observer != nil {
			l.observer.ObserveEvent(j.kind, time.Since(start), res.err)
		}
	}()
	render, err := j.run(l.session)
	return result{render: render, err: err}
}

// Submit hands ev to the loop and waits for the resulting render.
func (l *Loop) Submit(ctx context.Context, ev Event) (application.Render, error) {
	run, err := eventFunc(ev)
	if err != nil {
		return application.Render{}, err
	}
	return l.do(ctx, string(ev.Kind), run)
}

// Snapshot reads the full session state on the loop goroutine.
func (l *Loop) Snapshot(ctx context.Context) (application.Snapshot, error) {
	var snap application.Snapshot
	_, err := l.do(ctx, "snapshot", func(s Session) (application.Render, error) {
		snap = s.Snapshot()
		return application.Render{}, nil
	})
	return snap, err
}

func (l *Loop) do(ctx context.Context, kind string, run func(Session) (application.Render, error)) (application.Render, error) {
	j := job{kind: kind, run: run, reply: make(chan result, 1)}
	select {
	case <-ctx.Done():
		return application.Render{}, ctx.Err()
	case <-l.done:
		return application.Render{}, ErrStopped
	case l.jobs <- j:
	}
	select {
	case <-ctx.Done():
		return application.Render{}, ctx.Err()
	case res := <-j.reply:
		return res.render, res.err
	case <-l.done:
		select {
		case res := <-j.reply:
			return res.render, res.err
		default:
			return application.Render{}, ErrStopped
		}
	}
}

func eventFunc(ev Event) (func(Session) (application.Render, error), error) {
	switch ev.Kind {
	case KindAmount:
		ch := application.Change{Row: ev.Row, Kind: application.AmountChanged, Value: ev.Value}
		return func(s Session) (application.Render, error) { return s.OnRowChanged(ch) }, nil
	case KindCurrency:
		ch := application.Change{Row: ev.Row, Kind: application.CurrencyChanged, Value: ev.Value}
		return func(s Session) (application.Render, error) { return s.OnRowChanged(ch) }, nil
	case KindReset:
		return func(s Session) (application.Render, error) { return s.Reset(ev.Row) }, nil
	case KindRecompute:
		return func(s Session) (application.Render, error) { return s.RecomputeFrom(ev.Row) }, nil
	case KindAddRow:
		return func(s Session) (application.Render, error) { return s.AddRow(ev.Value) }, nil
	default:
		return nil, fmt.Errorf("eventloop: unknown event kind %q", ev.Kind)
	}
}
