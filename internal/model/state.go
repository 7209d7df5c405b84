package model

// State is the position of a unit within one migration run.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateLoading    State = "loading"
	StatePurging    State = "purging"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

var transitions = map[State][]State{
	StateIdle:       {StateExtracting},
	StateExtracting: {StateLoading, StateDone, StateFailed},
	StateLoading:    {StatePurging, StateFailed},
	StatePurging:    {StateDone, StateFailed},
}

// CanTransition reports whether moving from s to next is allowed.
// Done and Failed are terminal.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
