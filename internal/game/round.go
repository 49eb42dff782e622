// internal/game/round.go
//
// Round state for a single game.
//
// A round starts InProgress at attempt 1. Each accepted guess is appended to
// the history; then:
//   - guess == target → Won
//   - attempt == MaxAttempts → Lost
//   - otherwise attempt advances by one.
//
// While InProgress len(history) == attempt-1; once terminal, attempt equals
// the number of guesses played.

package game

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Round holds the state of one target word.
type Round struct {
	id        string
	target    string
	attempt   int
	history   []Guess
	status    Status
	startedAt time.Time
}

// newRound starts a round for target.
func newRound(target string, now time.Time) *Round {
	return &Round{
		id:        uuid.NewString(),
		target:    target,
		attempt:   1,
		status:    InProgress,
		startedAt: now,
	}
}

// apply appends a scored guess and advances the state machine.
// Callers guarantee the round is InProgress.
func (r *Round) apply(word string, res GuessResult) Status {
	r.history = append(r.history, Guess{Word: word, Result: res})
	switch {
	case word == r.target:
		r.status = Won
	case r.attempt >= MaxAttempts:
		r.status = Lost
	default:
		r.attempt++
	}
	return r.status
}

// record returns the outcome of a terminal round.
func (r *Round) record() GameRecord {
	return GameRecord{Solved: r.status == Won, Guesses: r.attempt, StartedAt: r.startedAt}
}

// RoundView is a read-only snapshot of a round for presentation layers.
// Target is only filled in once the round is over.
type RoundView struct {
	ID          string    `json:"id"`
	Status      Status    `json:"state"`
	Attempt     int       `json:"attempt"`
	MaxAttempts int       `json:"maxAttempts"`
	WordLength  int       `json:"wordLength"`
	History     []Guess   `json:"history"`
	Target      string    `json:"target,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
}

func (r *Round) view() RoundView {
	v := RoundView{
		ID:          r.id,
		Status:      r.status,
		Attempt:     r.attempt,
		MaxAttempts: MaxAttempts,
		WordLength:  len(r.target),
		History:     make([]Guess, len(r.history)),
		StartedAt:   r.startedAt,
	}
	for i, g := range r.history {
		v.History[i] = Guess{Word: g.Word, Result: slices.Clone(g.Result)}
	}
	if r.status.Terminal() {
		v.Target = r.target
	}
	return v
}
