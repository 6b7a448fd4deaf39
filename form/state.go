package form

import (
	"errors"
	"fmt"
)

var errUnknownState = errors.New("unknown form state")

// State is the outcome of the most recent completed validation pass.
type State int

const (
	// StateUnknown means no validation pass has completed yet.
	StateUnknown State = iota
	// StateValid means the last pass left no errors.
	StateValid
	// StateInvalid means at least one error is recorded.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "UNKNOWN"
	case StateValid:
		return "VALID"
	case StateInvalid:
		return "INVALID"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state name, so states serialize as "VALID" rather than 1.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case StateUnknown, StateValid, StateInvalid:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownState, int(s))
	}
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "UNKNOWN":
		*s = StateUnknown
	case "VALID":
		*s = StateValid
	case "INVALID":
		*s = StateInvalid
	default:
		return fmt.Errorf("%w: %q", errUnknownState, text)
	}

	return nil
}

func stateOf(errs []FieldError) State {
	if len(errs) == 0 {
		return StateValid
	}

	return StateInvalid
}
