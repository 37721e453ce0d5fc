// Package task provides the scheduler for deferred plugin functions.
//
// Plugins register the name of a global script function together with a
// delay or an interval. The editor asks the scheduler for everything due
// whenever it is idle waiting for input, then invokes each due function by
// name through the scripting host.
//
// The scheduler is safe for concurrent use. Its lock is held only while the
// due list is being computed, never while the due functions run, so a task
// may schedule further tasks without deadlocking.
package task

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors returned by the scheduler.
var (
	// ErrEmptyTarget is returned when a task has no function name.
	ErrEmptyTarget = errors.New("task target is empty")

	// ErrInvalidInterval is returned when an interval is not positive.
	ErrInvalidInterval = errors.New("task interval must be positive")
)

// Entry describes a scheduled task.
type Entry struct {
	// ID uniquely identifies the task for cancellation.
	ID string

	// Target is the name of the global script function to invoke.
	Target string

	// Interval is the repeat interval, or the initial delay for one-shot tasks.
	Interval time.Duration

	// Repeat is true for tasks that run every Interval.
	Repeat bool

	// Next is when the task is next due. Zero for spent one-shot tasks.
	Next time.Time
}

type entry struct {
	Entry
	seq   uint64
	spent bool
}

// Scheduler holds named deferred callables with due-time bookkeeping.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     uint64
	now     func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Every schedules target to run every interval, first after one interval.
func (s *Scheduler) Every(interval time.Duration, target string) (string, error) {
	return s.add(interval, target, true)
}

// After schedules target to run once after delay.
func (s *Scheduler) After(delay time.Duration, target string) (string, error) {
	if delay < 0 {
		delay = 0
	}
	return s.add(delay, target, false)
}

func (s *Scheduler) add(d time.Duration, target string, repeat bool) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", ErrEmptyTarget
	}
	if repeat && d <= 0 {
		return "", ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e := &entry{
		Entry: Entry{
			ID:       uuid.NewString(),
			Target:   target,
			Interval: d,
			Repeat:   repeat,
			Next:     s.now().Add(d),
		},
		seq: s.seq,
	}
	s.entries[e.ID] = e
	return e.ID, nil
}

// Cancel removes a task. Returns false if the id is unknown.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Clear removes every task.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

// Due returns the targets of all tasks due now, in registration order, and
// advances their due time. Repeating tasks move forward by their interval
// (or to one interval from now if they fell behind); one-shot tasks are
// reported once and then stay dormant.
func (s *Scheduler) Due() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var due []*entry
	for _, e := range s.entries {
		if e.spent || now.Before(e.Next) {
			continue
		}
		due = append(due, e)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].seq < due[j].seq })

	targets := make([]string, 0, len(due))
	for _, e := range due {
		targets = append(targets, e.Target)
		if !e.Repeat {
			e.spent = true
			e.Next = time.Time{}
			continue
		}
		e.Next = e.Next.Add(e.Interval)
		if !e.Next.After(now) {
			e.Next = now.Add(e.Interval)
		}
	}
	return targets
}

// Entries returns a snapshot of all tasks in registration order.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })

	out := make([]Entry, len(list))
	for i, e := range list {
		out[i] = e.Entry
	}
	return out
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
