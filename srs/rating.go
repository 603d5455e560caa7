package srs

import "fmt"

// Rating is the user's self-assessed recall quality, ordinal 1-4.
type Rating int

const (
	Again Rating = iota + 1 // failed to recall
	Hard                    // recalled with serious effort
	Good                    // recalled with some effort
	Easy                    // recalled instantly
)

var ratingNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

// IsValid reports whether r is one of the four defined grades.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// String returns the lowercase grade name, or "rating(n)" for invalid values.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("rating(%d)", int(r))
}
