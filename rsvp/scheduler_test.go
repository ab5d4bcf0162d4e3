package rsvp

import (
	"sort"
	"sync"
	"time"
)

// manualScheduler is a Scheduler driven by Advance instead of wall time.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	timers  []*manualTimer
	delays  []time.Duration
	created int
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	t := &manualTimer{s: s, at: s.now + d, seq: s.created, f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

// Advance moves the clock forward, firing due timers in order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		due := s.pendingLocked()
		if len(due) == 0 || due[0].at > target {
			s.now = target
			s.mu.Unlock()
			return
		}
		t := due[0]
		t.fired = true
		s.now = t.at
		s.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of timers that have neither fired nor stopped.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingLocked())
}

// Delays returns every delay passed to AfterFunc.
func (s *manualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func (s *manualScheduler) pendingLocked() []*manualTimer {
	var out []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].at == out[j].at {
			return out[i].seq < out[j].seq
		}
		return out[i].at < out[j].at
	})
	return out
}
