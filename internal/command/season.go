package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Clock abstracts time for the season watcher so transitions are testable.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }

// Season is a recurring active window described by a cron start and a cron
// end expression. A command is in season when the most recent boundary
// before "now" was a start.
type Season struct {
	start cron.Schedule
	end   cron.Schedule
}

// ParseSeason builds a Season from standard cron expressions.
func ParseSeason(startSpec, endSpec string) (*Season, error) {
	start, err := cron.ParseStandard(startSpec)
	if err != nil {
		return nil, fmt.Errorf("season start: %w", err)
	}
	end, err := cron.ParseStandard(endSpec)
	if err != nil {
		return nil, fmt.Errorf("season end: %w", err)
	}
	return &Season{start: start, end: end}, nil
}

// Active reports whether now falls inside the current start/end window.
// When the next end fires before the next start, a window is open.
func (s *Season) Active(now time.Time) bool {
	return s.end.Next(now).Before(s.start.Next(now))
}

// next returns the nearest upcoming boundary, start or end.
func (s *Season) next(now time.Time) time.Time {
	start, end := s.start.Next(now), s.end.Next(now)
	if start.Before(end) {
		return start
	}
	return end
}

// SeasonState enumerates the watcher's per-command states.
type SeasonState int

const (
	OffSeason SeasonState = iota
	InSeason
)

// SeasonObserver is notified on state transitions, so dependent surfaces
// (help listings) can react without polling.
type SeasonObserver interface {
	SeasonStarted(command string)
	SeasonEnded(command string)
}

// SeasonWatcher tracks seasonal commands and fires observers on each
// boundary crossing.
type SeasonWatcher struct {
	clock Clock

	mu        sync.Mutex
	entries   map[string]*seasonEntry
	observers []SeasonObserver
	stopped   bool
}

type seasonEntry struct {
	season *Season
	state  SeasonState
	timer  Timer
}

func NewSeasonWatcher() *SeasonWatcher {
	return &SeasonWatcher{
		clock:   realClock{},
		entries: make(map[string]*seasonEntry),
	}
}

func (w *SeasonWatcher) WithClock(clock Clock) {
	w.clock = clock
}

func (w *SeasonWatcher) Observe(observer SeasonObserver) {
	w.mu.Lock()
	w.observers = append(w.observers, observer)
	w.mu.Unlock()
}

// Track registers a seasonal command, computes its current state, and arms
// a timer for the next boundary.
func (w *SeasonWatcher) Track(name string, season *Season) {
	now := w.clock.Now()
	state := OffSeason
	if season.Active(now) {
		state = InSeason
	}

	w.mu.Lock()
	w.entries[name] = &seasonEntry{season: season, state: state}
	w.armLocked(name, now)
	w.mu.Unlock()
}

// State returns the watcher's current state for a tracked command.
// Untracked commands are permanently in season.
func (w *SeasonWatcher) State(name string) SeasonState {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry := w.entries[name]
	if entry == nil {
		return InSeason
	}
	return entry.state
}

// Stop cancels all pending boundary timers.
func (w *SeasonWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for _, entry := range w.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
	}
}

func (w *SeasonWatcher) armLocked(name string, now time.Time) {
	entry := w.entries[name]
	if entry == nil || w.stopped {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	boundary := entry.season.next(now)
	entry.timer = w.clock.AfterFunc(boundary.Sub(now), func() { w.tick(name) })
}

func (w *SeasonWatcher) tick(name string) {
	now := w.clock.Now()

	w.mu.Lock()
	entry := w.entries[name]
	if entry == nil || w.stopped {
		w.mu.Unlock()
		return
	}
	state := OffSeason
	if entry.season.Active(now) {
		state = InSeason
	}
	changed := state != entry.state
	entry.state = state
	observers := append([]SeasonObserver(nil), w.observers...)
	// Arm from just past the boundary so next() does not return the
	// moment that fired.
	w.armLocked(name, now.Add(time.Second))
	w.mu.Unlock()

	if !changed {
		return
	}
	for _, observer := range observers {
		if state == InSeason {
			observer.SeasonStarted(name)
		} else {
			observer.SeasonEnded(name)
		}
	}
}
