package domain

import (
	"errors"
	"fmt"
	"sort"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

var (
	// ErrTrackerStopped is returned when a stopped tracker is started again.
	ErrTrackerStopped = errors.New("tracker already stopped")
	// ErrNotStopped is returned by reads that need a finished run.
	ErrNotStopped = errors.New("tracker not stopped")
	// ErrTrackerRunning is returned by a second Start.
	ErrTrackerRunning = errors.New("tracker already running")
)

// Tracker accumulates line events of one worker. A tracker runs once:
// Start, any number of events, Stop. It is not safe for concurrent use; a
// worker feeds it from a single goroutine.
type Tracker interface {
	Start(filter FileFilter) error
	Stop() error
	OnLineExecuted(file m.Path, line int)
	// OnLineVerified records an assertion touching line. A verified line
	// has also executed.
	OnLineVerified(file m.Path, line int)
	// RawCounts returns a copy of the counters of file. The read is only
	// stable once the tracker is stopped.
	RawCounts(file m.Path) (m.RawCounts, bool)
	// Snapshot returns the counters of every tracked file.
	Snapshot() (map[m.Path]m.RawCounts, error)
	Files() []m.Path
	State(file m.Path) m.FileState
	// MarkAggregated moves file to its terminal state. A file that saw no
	// events while running counts as stopped with empty counters, so an
	// untracked file moves through stopped to aggregated.
	MarkAggregated(file m.Path) error
	Running() bool
}

type trackerPhase int

const (
	phaseIdle trackerPhase = iota
	phaseRunning
	phaseStopped
)

type tracker struct {
	phase   trackerPhase
	filter  FileFilter
	counts  map[m.Path]m.RawCounts
	states  map[m.Path]m.FileState
	allowed map[m.Path]bool
}

// NewTracker returns an idle tracker.
func NewTracker() Tracker {
	return &tracker{
		counts:  map[m.Path]m.RawCounts{},
		states:  map[m.Path]m.FileState{},
		allowed: map[m.Path]bool{},
	}
}

func (t *tracker) Start(filter FileFilter) error {
	switch t.phase {
	case phaseRunning:
		return ErrTrackerRunning
	case phaseStopped:
		return ErrTrackerStopped
	}

	t.filter = filter
	t.phase = phaseRunning

	return nil
}

func (t *tracker) Stop() error {
	switch t.phase {
	case phaseIdle:
		return fmt.Errorf("stop: tracker was never started")
	case phaseStopped:
		return ErrTrackerStopped
	}

	t.phase = phaseStopped

	for file, st := range t.states {
		if st == m.StateTracking {
			t.states[file] = m.StateStopped
		}
	}

	return nil
}

func (t *tracker) Running() bool { return t.phase == phaseRunning }

func (t *tracker) OnLineExecuted(file m.Path, line int) {
	if c, ok := t.accept(file, line); ok {
		c.Executed[line]++
	}
}

func (t *tracker) OnLineVerified(file m.Path, line int) {
	if c, ok := t.accept(file, line); ok {
		c.Executed[line]++
		c.Verified[line]++
	}
}

func (t *tracker) accept(file m.Path, line int) (m.RawCounts, bool) {
	if t.phase != phaseRunning || line <= 0 {
		return m.RawCounts{}, false
	}

	allowed, seen := t.allowed[file]
	if !seen {
		allowed = t.filter == nil || t.filter.Match(file)
		t.allowed[file] = allowed
	}

	if !allowed {
		return m.RawCounts{}, false
	}

	c, ok := t.counts[file]
	if !ok {
		c = m.NewRawCounts()
		t.counts[file] = c
		t.states[file] = m.StateTracking
	}

	return c, true
}

func (t *tracker) RawCounts(file m.Path) (m.RawCounts, bool) {
	c, ok := t.counts[file]
	if !ok {
		return m.RawCounts{}, false
	}

	return c.Clone(), true
}

func (t *tracker) Snapshot() (map[m.Path]m.RawCounts, error) {
	if t.phase != phaseStopped {
		return nil, ErrNotStopped
	}

	out := make(map[m.Path]m.RawCounts, len(t.counts))
	for file, c := range t.counts {
		out[file] = c.Clone()
	}

	return out, nil
}

func (t *tracker) Files() []m.Path {
	out := make([]m.Path, 0, len(t.counts))
	for file := range t.counts {
		out = append(out, file)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func (t *tracker) State(file m.Path) m.FileState {
	return t.states[file]
}

func (t *tracker) MarkAggregated(file m.Path) error {
	if t.phase != phaseStopped {
		return ErrNotStopped
	}

	switch t.states[file] {
	case m.StateAggregated:
		return fmt.Errorf("%s: already aggregated", file)
	case m.StateUntracked:
		t.states[file] = m.StateStopped
	}

	if st := t.states[file]; st != m.StateStopped {
		return fmt.Errorf("%s: cannot aggregate from %s", file, st)
	}

	t.states[file] = m.StateAggregated

	return nil
}
