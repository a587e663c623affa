package bell

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
)

// DefaultInterval is the refresh period of a Board.
const DefaultInterval = time.Second

// ErrStarted is returned by Start while a previous Start has not been stopped.
var ErrStarted = errors.New("bell board already started")

// nowFunc is overridden in tests.
var nowFunc = time.Now

// Board keeps the latest bell State, refreshed on a fixed interval.
type Board struct {
	loc      *time.Location
	interval time.Duration

	mu        sync.RWMutex
	state     State
	updatedAt time.Time

	scheduler gocron.Scheduler
}

// NewBoard returns a Board resolving times in loc. A zero interval means DefaultInterval.
func NewBoard(loc *time.Location, interval time.Duration) *Board {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	b := &Board{loc: loc, interval: interval}
	b.Refresh()
	return b
}

// Refresh recomputes the state from the current time.
func (b *Board) Refresh() State {
	now := nowFunc().In(b.loc)
	st := At(now, b.loc)

	b.mu.Lock()
	b.state = st
	b.updatedAt = now
	b.mu.Unlock()
	return st
}

// Current returns the last computed state and when it was computed.
func (b *Board) Current() (State, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state, b.updatedAt
}

// Location is the zone the board resolves times in.
func (b *Board) Location() *time.Location {
	return b.loc
}

// Start schedules the periodic refresh. The scheduler is shut down when ctx is done.
func (b *Board) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler(gocron.WithLocation(b.loc))
	if err != nil {
		return errors.Wrap(err, "creating bell scheduler")
	}

	_, err = s.NewJob(
		gocron.DurationJob(b.interval),
		gocron.NewTask(func() { b.Refresh() }),
		gocron.WithName("bell refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return errors.Wrap(err, "scheduling bell refresh")
	}

	b.mu.Lock()
	if b.scheduler != nil {
		b.mu.Unlock()
		_ = s.Shutdown()
		return ErrStarted
	}
	b.scheduler = s
	b.mu.Unlock()
	s.Start()

	go func() {
		<-ctx.Done()
		_ = b.stop(s)
	}()
	return nil
}

// Stop shuts the refresh scheduler down. It is safe to call more than once.
func (b *Board) Stop() error {
	b.mu.RLock()
	s := b.scheduler
	b.mu.RUnlock()
	return b.stop(s)
}

// stop shuts s down if it is still the running scheduler.
func (b *Board) stop(s gocron.Scheduler) error {
	b.mu.Lock()
	if s == nil || b.scheduler != s {
		b.mu.Unlock()
		return nil
	}
	b.scheduler = nil
	b.mu.Unlock()
	return errors.Wrap(s.Shutdown(), "stopping bell scheduler")
}
