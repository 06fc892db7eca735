// Package dispatch is the scheduler facade: it ties a cron expression (via
// internal/cronx's spec-accurate engine) to a wheel.Timer and a
// registry.Registry, and re-arms each task after it fires so that a single
// Add call keeps a job running on its schedule indefinitely.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hzerrad/chronowheel/internal/cronx"
	"github.com/hzerrad/chronowheel/internal/registry"
	"github.com/hzerrad/chronowheel/internal/wheel"
)

// Task is one unit of recurring work: Run fires each time Cron's next valid
// instant arrives, until Cancel(ID) is called or the scheduler shuts down.
type Task struct {
	ID   string
	Cron string
	Run  func(context.Context)
}

// AddErrorKind classifies why Add failed, mirroring the taxonomy a caller
// needs to distinguish a bad expression from a scheduler that's gone away.
type AddErrorKind int

const (
	// InvalidCron means the cron expression itself failed to parse.
	InvalidCron AddErrorKind = iota
	// ExpressionExhausted means the expression parsed but yields no future
	// instant (for example a year-bounded expression whose year has passed).
	ExpressionExhausted
	// Shutdown means Add was called after Shutdown.
	Shutdown
)

// Sentinel errors usable with errors.Is; AddError wraps one of these as its
// underlying cause alongside task-specific detail.
var (
	ErrInvalidCron         = errors.New("dispatch: invalid cron expression")
	ErrExpressionExhausted = errors.New("dispatch: cron expression has no future occurrence")
	ErrShutdown            = errors.New("dispatch: scheduler is shut down")
)

// AddError reports why (*Scheduler).Add failed, identifying both the kind
// of failure and the task it happened to.
type AddError struct {
	Kind   AddErrorKind
	TaskID string
	Err    error
}

func (e *AddError) Error() string {
	return fmt.Sprintf("dispatch: add %q: %v", e.TaskID, e.Err)
}

func (e *AddError) Unwrap() error { return e.Err }

func newAddError(kind AddErrorKind, taskID string, cause error) *AddError {
	var sentinel error
	switch kind {
	case ExpressionExhausted:
		sentinel = ErrExpressionExhausted
	case Shutdown:
		sentinel = ErrShutdown
	default:
		sentinel = ErrInvalidCron
	}
	if cause != nil {
		sentinel = fmt.Errorf("%w: %v", sentinel, cause)
	}
	return &AddError{Kind: kind, TaskID: taskID, Err: sentinel}
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger overrides the structured logger used for task lifecycle
// events (scheduled, fired, cancelled, re-armed, exhausted).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithClock overrides the source of "now" used to compute delays, for
// deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// Scheduler is the cron-driven facade over a hashed wheel timer: Add parses
// a cron expression, computes the delay to its next valid instant, and
// submits a self-re-arming task to the wheel.
type Scheduler struct {
	timer  *wheel.Timer
	reg    *registry.Registry
	logger *slog.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler builds a Scheduler backed by a wheel.Timer with the given
// tick resolution and ring size, and starts the wheel's worker immediately.
func NewScheduler(tickDuration time.Duration, wheelSize int, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		timer:  wheel.NewTimer(tickDuration, wheelSize),
		reg:    registry.New(),
		logger: slog.Default(),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timer.Start()
	return s
}

// Add parses task.Cron with the spec-accurate expression engine, schedules
// its first fire, and registers the resulting handle under task.ID,
// cancelling whatever was previously registered under that ID. The task
// re-arms itself through Add after every successful fire, so a single call
// here keeps it running on schedule until Cancel or Shutdown.
func (s *Scheduler) Add(task Task) error {
	expr, err := cronx.ParseExpression(task.Cron)
	if err != nil {
		return newAddError(InvalidCron, task.ID, err)
	}

	next, ok := expr.NextValidAfter(s.now())
	if !ok {
		return newAddError(ExpressionExhausted, task.ID, nil)
	}

	delay := next.Sub(s.now())
	handle, err := s.timer.Submit(s.wrap(task, expr), delay)
	if err != nil {
		if errors.Is(err, wheel.ErrShutdown) {
			return newAddError(Shutdown, task.ID, nil)
		}
		return newAddError(Shutdown, task.ID, err)
	}

	s.reg.Put(task.ID, handle)
	s.logger.Info("dispatch: task scheduled", "id", task.ID, "cron", task.Cron, "next", next)
	return nil
}

// wrap builds the wheel.Task that runs task.Run and then re-arms the task
// for its next occurrence, mirroring the self-rescheduling cronJob pattern
// but driven by the wheel instead of a per-job timer goroutine.
func (s *Scheduler) wrap(task Task, expr *cronx.CronExpression) wheel.Task {
	return func() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("dispatch: task panicked", "id", task.ID, "panic", r)
				}
			}()
			task.Run(s.ctx)
		}()
		s.logger.Info("dispatch: task fired", "id", task.ID)

		if s.ctx.Err() != nil {
			return
		}
		if err := s.Add(task); err != nil {
			var addErr *AddError
			if errors.As(err, &addErr) && addErr.Kind == ExpressionExhausted {
				s.logger.Info("dispatch: task exhausted, not re-arming", "id", task.ID)
				return
			}
			s.logger.Error("dispatch: failed to re-arm task", "id", task.ID, "error", err)
		}
	}
}

// Cancel stops task id from firing again. It returns false only when the
// registered handle had already fired; an id with no registered handle is
// treated as already cancelled and returns true.
func (s *Scheduler) Cancel(id string) bool {
	return s.reg.Remove(id)
}

// Shutdown stops the wheel's worker and returns the IDs of tasks that had
// not yet fired. After Shutdown, Add fails with ErrShutdown for any
// expression that parses and still has a future occurrence.
func (s *Scheduler) Shutdown() []string {
	s.cancel()
	unfired := s.timer.Stop()

	ids := make([]string, 0, len(unfired))
	for _, h := range unfired {
		if id, ok := s.idFor(h); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// idFor is a small linear reverse lookup used only during shutdown, where
// the set of unfired handles is small and this runs exactly once.
func (s *Scheduler) idFor(target *wheel.Handle) (string, bool) {
	for id, h := range s.snapshotHandles() {
		if h == target {
			return id, true
		}
	}
	return "", false
}

func (s *Scheduler) snapshotHandles() map[string]*wheel.Handle {
	out := make(map[string]*wheel.Handle)
	s.reg.Range(func(id string, h *wheel.Handle) {
		out[id] = h
	})
	return out
}
