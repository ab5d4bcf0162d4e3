package rsvp

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StatePlaying, "playing"},
		{StatePaused, "paused"},
		{StateFinished, "finished"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateMachineTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		ok   bool
	}{
		{"idle to playing", StateIdle, StatePlaying, true},
		{"idle to paused", StateIdle, StatePaused, true},
		{"idle to finished", StateIdle, StateFinished, false},
		{"playing to paused", StatePlaying, StatePaused, true},
		{"playing to finished", StatePlaying, StateFinished, true},
		{"playing to idle", StatePlaying, StateIdle, true},
		{"paused to playing", StatePaused, StatePlaying, true},
		{"paused to finished", StatePaused, StateFinished, false},
		{"finished to idle", StateFinished, StateIdle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine()
			sm.current = tt.from

			if got := sm.Transition(tt.to); got != tt.ok {
				t.Errorf("Transition(%v) = %v, want %v", tt.to, got, tt.ok)
			}
			want := tt.from
			if tt.ok {
				want = tt.to
			}
			if sm.Current() != want {
				t.Errorf("Current() = %v, want %v", sm.Current(), want)
			}
		})
	}
}

func TestStateMachineOnEnter(t *testing.T) {
	sm := NewStateMachine()

	var from []State
	sm.OnEnter(StatePlaying, func(f State) { from = append(from, f) })

	sm.Transition(StatePlaying)
	sm.Transition(StatePaused)
	sm.Transition(StatePlaying)

	if len(from) != 2 || from[0] != StateIdle || from[1] != StatePaused {
		t.Errorf("OnEnter saw %v, want [idle paused]", from)
	}
}

func TestStateMachineReset(t *testing.T) {
	sm := NewStateMachine()

	calls := 0
	sm.OnEnter(StatePaused, func(State) { calls++ })

	sm.Reset(StatePaused)
	sm.Reset(StatePaused)

	if sm.Current() != StatePaused {
		t.Errorf("Current() = %v, want paused", sm.Current())
	}
	if calls != 1 {
		t.Errorf("OnEnter called %d times, want 1", calls)
	}
}
