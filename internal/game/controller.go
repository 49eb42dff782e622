// internal/game/controller.go
//
// Controller runs the round lifecycle for one player:
//   - StartRound: fetch the valid word set, pick a target, reset the key.
//   - SubmitGuess: validate, score, advance the round.
//   - RecordAndReset: commit a finished round to the Recorder.
//   - StatsSummary: summarize every committed round.
//
// Rejected calls never mutate state: a guess is either fully applied (history,
// attempt, key state) or not at all.
//
// A Controller is not safe for concurrent use; callers sharing one across
// goroutines must serialize access (see store.Session).

package game

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-engine/internal/words"
)

// WordSource supplies the valid word set and the round target.
type WordSource interface {
	// FetchValidWords retrieves the current valid word set. Each call is a
	// fresh attempt; failures wrap words.ErrSourceUnavailable.
	FetchValidWords(ctx context.Context) (words.Set, error)

	// PickTarget chooses the round target from set. It fails with
	// words.ErrEmptyWordSet when there is nothing to choose from.
	PickTarget(set words.Set) (string, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithScorer replaces the default Evaluate scorer.
func WithScorer(s Scorer) Option {
	return func(c *Controller) { c.score = s }
}

// WithRecorder sets where finished rounds are committed.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.records = r }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller ties a word source, a scorer and a record log together.
type Controller struct {
	src     WordSource
	score   Scorer
	records Recorder
	log     zerolog.Logger
	now     func() time.Time

	round *Round
	keys  KeyState

	listeners []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Listener
}

// NewController returns a controller with no round started.
func NewController(src WordSource, opts ...Option) *Controller {
	c := &Controller{
		src:     src,
		score:   Evaluate,
		records: &MemoryRecords{},
		log:     log.Logger,
		now:     time.Now,
		keys:    KeyState{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers l for state-change events and returns a function that
// removes it.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	c.nextSub++
	id := c.nextSub
	c.listeners = append(c.listeners, subscription{id: id, fn: l})
	return func() {
		c.listeners = slices.DeleteFunc(c.listeners, func(s subscription) bool { return s.id == id })
	}
}

func (c *Controller) emit(e Event) {
	for _, s := range c.listeners {
		s.fn(e)
	}
}

// StartRound fetches the word set and starts a new round with a fresh key.
//
// On failure the previous state is left untouched. A finished round that was
// never recorded is committed first; an unfinished one is abandoned. If ctx is
// cancelled while the source is being consulted, the fetched result is
// discarded.
func (c *Controller) StartRound(ctx context.Context) error {
	set, err := c.src.FetchValidWords(ctx)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}
	target, err := c.src.PickTarget(set)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start round: %w", err)
	}

	if c.round != nil {
		if c.round.status.Terminal() {
			if err := c.commit(ctx); err != nil {
				return err
			}
		} else {
			c.log.Debug().Str("round", c.round.id).Int("attempt", c.round.attempt).Msg("round abandoned")
		}
	}

	c.round = newRound(words.Normalize(target), c.now())
	c.keys = KeyState{}
	c.log.Debug().Str("round", c.round.id).Int("words", set.Len()).Msg("round started")
	c.emit(Event{Kind: RoundStarted, RoundID: c.round.id, Status: InProgress, Attempt: 1})
	return nil
}

// SubmitGuess validates and scores a guess against the current round.
//
// Validation order:
//   - a round must exist (ErrNoRound) and be in progress (ErrRoundAlreadyOver);
//   - the guess must have the target's length (ErrLengthMismatch);
//   - the guess must be in a freshly fetched valid word set (ErrInvalidWord);
//     a failing fetch rejects the guess with the source error.
//
// None of these consume an attempt.
func (c *Controller) SubmitGuess(ctx context.Context, word string) (GuessResult, error) {
	r := c.round
	if r == nil {
		return nil, ErrNoRound
	}
	if r.status != InProgress {
		return nil, ErrRoundAlreadyOver
	}
	word = words.Normalize(word)
	if len(word) != len(r.target) {
		return nil, fmt.Errorf("%w: %d letters, want %d", ErrLengthMismatch, len(word), len(r.target))
	}

	set, err := c.src.FetchValidWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("check word: %w", err)
	}
	if !set.Contains(word) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}

	res, err := c.score(word, r.target)
	if err != nil {
		return nil, err
	}

	status := r.apply(word, res)
	c.keys.Merge(word, res)

	g := Guess{Word: word, Result: slices.Clone(res)}
	c.emit(Event{Kind: GuessScored, RoundID: r.id, Status: status, Attempt: r.attempt, Guess: &g})
	if status.Terminal() {
		c.log.Debug().Str("round", r.id).Stringer("state", status).Int("guesses", r.attempt).Msg("round finished")
		c.emit(Event{Kind: RoundFinished, RoundID: r.id, Status: status, Attempt: r.attempt, Guess: &g})
	}
	return slices.Clone(res), nil
}

// RecordAndReset commits the finished round to the record log, then discards
// it and clears the key. The controller is Idle afterwards.
func (c *Controller) RecordAndReset(ctx context.Context) error {
	if c.round == nil {
		return ErrNoRound
	}
	if !c.round.status.Terminal() {
		return ErrRoundInProgress
	}
	if err := c.commit(ctx); err != nil {
		return err
	}
	c.round = nil
	c.keys = KeyState{}
	return nil
}

// commit appends the outcome of the current (terminal) round.
func (c *Controller) commit(ctx context.Context) error {
	r := c.round
	rec := r.record()
	if err := c.records.Append(ctx, rec); err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	c.emit(Event{Kind: RoundRecorded, RoundID: r.id, Status: r.status, Attempt: r.attempt, Record: &rec})
	return nil
}

// CurrentRoundStatus reports the status of the current round, Idle if none.
func (c *Controller) CurrentRoundStatus() Status {
	if c.round == nil {
		return Idle
	}
	return c.round.status
}

// Round returns a snapshot of the current round.
func (c *Controller) Round() (RoundView, bool) {
	if c.round == nil {
		return RoundView{}, false
	}
	return c.round.view(), true
}

// KeyState returns a snapshot of the letter key.
func (c *Controller) KeyState() KeyState {
	return c.keys.Clone()
}

// StatsSummary summarizes every recorded round.
func (c *Controller) StatsSummary(ctx context.Context) (StatsSummary, error) {
	recs, err := c.records.Records(ctx)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("load records: %w", err)
	}
	return Summarize(recs), nil
}
