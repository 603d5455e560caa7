// Package srs implements the spaced-repetition memory model used to schedule
// flashcard reviews.
//
// The model tracks two per-card parameters: stability, an estimate of how many
// days pass before recall probability decays to the desired retention, and
// difficulty, the card's intrinsic resistance to memory growth. Each graded
// review updates both and derives the next review interval from the inverted
// forgetting curve.
//
// The package is pure: Schedule takes the current state, a rating and an
// explicit clock value, and returns the next state. It performs no I/O.
package srs
