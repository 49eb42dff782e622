// internal/game/events.go

package game

// EventKind names a state change of the controller.
type EventKind string

const (
	RoundStarted  EventKind = "round_started"
	GuessScored   EventKind = "guess_scored"
	RoundFinished EventKind = "round_finished"
	RoundRecorded EventKind = "round_recorded"
)

// Event describes one state change. Guess is set for GuessScored and
// RoundFinished; Record for RoundRecorded.
type Event struct {
	Kind    EventKind   `json:"kind"`
	RoundID string      `json:"roundId"`
	Status  Status      `json:"state"`
	Attempt int         `json:"attempt"`
	Guess   *Guess      `json:"guess,omitempty"`
	Record  *GameRecord `json:"record,omitempty"`
}

// Listener receives controller events. It runs synchronously inside the
// controller call that produced the event and must not call back into it.
type Listener func(Event)
