// internal/game/engine.go
//
// Guess scoring.
//
// Two scorers are available:
//   - Evaluate: the classic single-pass comparison. A letter that occurs in
//     the target is "present" at every position it does not match, even when
//     the target holds fewer copies of it than the guess.
//   - EvaluateStrict: the two-pass comparison that reserves each target letter
//     at most once across hits and presents.
//
// Both are pure; inputs must already be normalized to lowercase.

package game

import (
	"fmt"
	"strings"
)

// Scorer compares a guess against a target.
type Scorer func(guess, target string) (GuessResult, error)

// ScorerByName maps a configuration name to a Scorer.
// "classic" (or "") selects Evaluate, "standard" selects EvaluateStrict.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", "classic":
		return Evaluate, nil
	case "standard":
		return EvaluateStrict, nil
	}
	return nil, fmt.Errorf("unknown scoring mode %q", name)
}

// Evaluate scores guess against target position by position:
//   - letter found anywhere in target but not at i → WrongPosition
//   - letter equal to target[i] → CorrectPosition
//   - otherwise → Absent
func Evaluate(guess, target string) (GuessResult, error) {
	if len(guess) != len(target) {
		return nil, fmt.Errorf("%w: %d letters, want %d", ErrLengthMismatch, len(guess), len(target))
	}
	res := make(GuessResult, len(guess))
	for i := 0; i < len(guess); i++ {
		switch {
		case strings.IndexByte(target, guess[i]) >= 0 && target[i] != guess[i]:
			res[i] = WrongPosition
		case target[i] == guess[i]:
			res[i] = CorrectPosition
		default:
			res[i] = Absent
		}
	}
	return res, nil
}

// EvaluateStrict implements the standard Wordle two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as CorrectPosition.
//   - Count remaining (non-hit) target letters.
//
// Pass 2:
//   - For each non-hit guess letter: if there is remaining count for that
//     letter, mark WrongPosition and decrement the count; otherwise Absent.
func EvaluateStrict(guess, target string) (GuessResult, error) {
	n := len(guess)
	if n != len(target) {
		return nil, fmt.Errorf("%w: %d letters, want %d", ErrLengthMismatch, n, len(target))
	}
	res := make(GuessResult, n)
	counts := make(map[byte]int, n)

	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			res[i] = CorrectPosition
		} else {
			counts[target[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == CorrectPosition {
			continue
		}
		if c := guess[i]; counts[c] > 0 {
			res[i] = WrongPosition
			counts[c]--
		} else {
			res[i] = Absent
		}
	}
	return res, nil
}
