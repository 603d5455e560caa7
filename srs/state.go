package srs

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// State is the lifecycle stage of a card.
type State int

const (
	New        State = iota // created, never reviewed
	Learning                // in the initial learning ladder
	Review                  // graduated into the long-term review cycle
	Relearning              // lapsed, repeating the relearning ladder
)

var (
	stateNames = [...]string{New: "new", Learning: "learning", Review: "review", Relearning: "relearning"}

	stateByName = map[string]State{
		"new":        New,
		"learning":   Learning,
		"review":     Review,
		"relearning": Relearning,
	}
)

var (
	_ fmt.Stringer             = State(0)
	_ encoding.TextMarshaler   = State(0)
	_ encoding.TextUnmarshaler = (*State)(nil)
)

// IsValid reports whether s is a defined state.
func (s State) IsValid() bool {
	return s >= New && s <= Relearning
}

// String returns the lowercase state name, or "state(n)" for invalid values.
func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("srs: invalid state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("srs: invalid state: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON serializes the state as a JSON string.
func (s State) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON expects a JSON string.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("srs: invalid state: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
