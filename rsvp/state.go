package rsvp

// State is the playback state of an Engine.
type State int

const (
	// StateIdle indicates nothing is playing and the position is at the start.
	StateIdle State = iota
	// StatePlaying indicates ticks are being scheduled.
	StatePlaying
	// StatePaused indicates playback is suspended at the current position.
	StatePaused
	// StateFinished is entered briefly when the last word has been shown.
	StateFinished
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// StateMachine guards playback state transitions.
type StateMachine struct {
	current     State
	transitions map[State][]State
	onEnter     map[State]func(from State)
}

// NewStateMachine creates a state machine in StateIdle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:     {StatePlaying, StatePaused},
			StatePlaying:  {StatePaused, StateIdle, StateFinished},
			StatePaused:   {StatePlaying, StateIdle},
			StateFinished: {StateIdle, StatePlaying, StatePaused},
		},
		onEnter: make(map[State]func(State)),
	}
}

// CanTransition reports whether moving to state to is allowed.
func (sm *StateMachine) CanTransition(to State) bool {
	for _, s := range sm.transitions[sm.current] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves to state to if the move is allowed.
func (sm *StateMachine) Transition(to State) bool {
	if !sm.CanTransition(to) {
		return false
	}
	sm.enter(to)
	return true
}

// Reset moves to state to unconditionally. Entering the current state is a
// no-op.
func (sm *StateMachine) Reset(to State) {
	if sm.current == to {
		return
	}
	sm.enter(to)
}

func (sm *StateMachine) enter(to State) {
	from := sm.current
	sm.current = to
	if fn, ok := sm.onEnter[to]; ok && fn != nil {
		fn(from)
	}
}

// Current returns the current state.
func (sm *StateMachine) Current() State {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state State, fn func(from State)) {
	sm.onEnter[state] = fn
}
