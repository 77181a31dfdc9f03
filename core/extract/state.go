package extract

import "fmt"

// Phase is the kind of pipeline state.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseRegenerate
	PhaseSuccess
	PhaseFallback
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseRegenerate:
		return "regenerate"
	case PhaseSuccess:
		return "success"
	case PhaseFallback:
		return "fallback"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a pipeline state. Attempt is meaningful only for the parse and
// regenerate phases.
type State struct {
	Phase   Phase
	Attempt int
}

var (
	stateSuccess  = State{Phase: PhaseSuccess}
	stateFallback = State{Phase: PhaseFallback}
)

// Terminal reports whether no further attempt follows s.
func (s State) Terminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseFallback
}

func (s State) String() string {
	if s.Terminal() {
		return s.Phase.String()
	}
	return fmt.Sprintf("%s(%d)", s.Phase, s.Attempt)
}

// advance returns the state that follows a failed attempt in s.
func advance(s State, maxParse, maxRegen int) State {
	switch s.Phase {
	case PhaseParse:
		if s.Attempt+1 < maxParse {
			return State{Phase: PhaseParse, Attempt: s.Attempt + 1}
		}
		return State{Phase: PhaseRegenerate}
	case PhaseRegenerate:
		if s.Attempt+1 < maxRegen {
			return State{Phase: PhaseRegenerate, Attempt: s.Attempt + 1}
		}
		return stateFallback
	default:
		return s
	}
}
