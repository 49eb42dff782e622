// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Verdict: per-letter result of a guess (hit/present/miss).
//   - GuessResult: one Verdict per letter position.
//   - Status: lifecycle of a round (idle/playing/won/lost).
//   - GameRecord: the outcome of a finished round.
//   - the errors returned by the engine.

package game

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MaxAttempts is the number of guesses a player gets per round.
const MaxAttempts = 6

var (
	ErrLengthMismatch   = errors.New("guess length does not match target")
	ErrInvalidWord      = errors.New("not a valid word")
	ErrRoundAlreadyOver = errors.New("round already over")
	ErrNoRound          = errors.New("no round started")
	ErrRoundInProgress  = errors.New("round still in progress")
)

// Verdict is the evaluation result for a single letter in a guess.
// Higher values win when verdicts for the same letter are merged.
type Verdict int

const (
	Unseen          Verdict = iota // letter not guessed yet
	Absent                         // "miss": letter is not in the target
	WrongPosition                  // "present": letter is in the target elsewhere
	CorrectPosition                // "hit": letter is in this position
)

// String returns the wire name of v.
func (v Verdict) String() string {
	switch v {
	case Absent:
		return "miss"
	case WrongPosition:
		return "present"
	case CorrectPosition:
		return "hit"
	default:
		return "unseen"
	}
}

// MarshalText encodes v by its wire name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a wire name.
func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unseen":
		*v = Unseen
	case "miss":
		*v = Absent
	case "present":
		*v = WrongPosition
	case "hit":
		*v = CorrectPosition
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// GuessResult holds one Verdict per letter position of a guess.
type GuessResult []Verdict

// Solved reports whether every position is CorrectPosition.
func (r GuessResult) Solved() bool {
	if len(r) == 0 {
		return false
	}
	for _, v := range r {
		if v != CorrectPosition {
			return false
		}
	}
	return true
}

// Status is the lifecycle state of a round.
type Status int

const (
	Idle       Status = iota // no round started, or the last one was recorded
	InProgress               // guesses are accepted
	Won                      // a guess matched the target
	Lost                     // MaxAttempts guesses without a match
)

// String returns the wire name of s.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "idle"
	}
}

// MarshalText encodes s by its wire name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether s ends a round.
func (s Status) Terminal() bool { return s == Won || s == Lost }

// Guess is one scored row of the board.
type Guess struct {
	Word   string      `json:"word"`
	Result GuessResult `json:"result"`
}

// GameRecord is the outcome of one finished round. StartedAt is when the
// round's target was chosen; record logs file the round under that date.
type GameRecord struct {
	Solved    bool      `json:"solved"`
	Guesses   int       `json:"guesses"`
	StartedAt time.Time `json:"startedAt,omitzero"`
}

// GuessesLabel renders a guess count with the right noun, e.g. "1 guess".
func GuessesLabel(n int) string {
	if n == 1 {
		return "1 guess"
	}
	return strconv.Itoa(n) + " guesses"
}
