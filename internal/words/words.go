// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Hold the valid-word set type shared by every word source (Set).
//   - Load answer and allowed guess lists from files or fall back to the
//     embedded defaults in the assets package (Load).
//   - Serve those lists as a word source: FetchValidWords hands out a fresh
//     copy of answers ∪ guesses, PickTarget draws a random answer.
//
// Word Lists:
//   - "answers": words that may be chosen as a target.
//   - "allowed": valid guesses (always includes answers).
//
// Load behavior:
//  1. answersPath and allowedPath both set: answers from the first file,
//     extra guesses from the second.
//  2. only allowedPath set: that file is used for both.
//  3. neither set: embedded defaults.
//
// Constraints:
//   • Words must be WordLength alphabetic letters (a–z).
//   • Lists are normalized to lowercase.

package words

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"maps"
	"math/big"
	"os"
	"slices"
	"strings"

	"github.com/robalobadob/wordle-engine/assets"
)

// WordLength is the number of letters in every listed word.
const WordLength = 5

var (
	// ErrSourceUnavailable reports that the valid word list could not be retrieved.
	ErrSourceUnavailable = errors.New("words: source unavailable")
	// ErrEmptyWordSet reports that there is nothing to choose a target from.
	ErrEmptyWordSet = errors.New("words: empty word set")
)

// Set is a lookup set of normalized words.
type Set map[string]struct{}

// NewSet builds a Set from list, dropping entries that are not alphabetic.
func NewSet(list ...string) Set {
	s := make(Set, len(list))
	for _, w := range list {
		s.Add(w)
	}
	return s
}

// Add normalizes w and inserts it when it is alphabetic.
func (s Set) Add(w string) {
	w = Normalize(w)
	if w != "" && IsAlpha(w) {
		s[w] = struct{}{}
	}
}

// Contains reports whether the normalized form of w is in the set.
func (s Set) Contains(w string) bool {
	_, ok := s[Normalize(w)]
	return ok
}

// Len returns the number of words in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Normalize trims surrounding whitespace and lowercases w.
func Normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// IsAlpha reports whether s is all lowercase ASCII letters.
func IsAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// List is a word source backed by in-memory answer and guess lists.
type List struct {
	answers []string // sorted, unique
	allowed Set      // answers ∪ guesses
	intn    func(n int) (int, error)
}

// NewList keeps the WordLength alphabetic entries of both lists. Answers are
// always allowed. It fails with ErrEmptyWordSet when no answer survives.
func NewList(answers, allowed []string) (*List, error) {
	ans := NewSet(keep(answers)...)
	if ans.Len() == 0 {
		return nil, fmt.Errorf("%w: answers list is empty", ErrEmptyWordSet)
	}
	all := NewSet(keep(allowed)...)
	for w := range ans {
		all[w] = struct{}{}
	}
	return &List{answers: ans.Sorted(), allowed: all, intn: cryptoIntn}, nil
}

// Load reads the word lists from the given files, falling back to the
// embedded defaults when no path is set.
func Load(answersPath, allowedPath string) (*List, error) {
	var ansList, allowList []string
	var err error

	switch {
	case answersPath != "" && allowedPath != "":
		if ansList, err = readWordFile(answersPath); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}

	case answersPath == "" && allowedPath != "":
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}
		ansList = allowList

	case answersPath != "":
		if ansList, err = readWordFile(answersPath); err != nil {
			return nil, err
		}

	default:
		if ansList, err = assets.AnswersList(); err != nil {
			return nil, fmt.Errorf("embedded answers: %w", err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return nil, fmt.Errorf("embedded allowed: %w", err)
		}
	}
	return NewList(ansList, allowList)
}

// FetchValidWords returns a copy of the allowed set, so callers never share
// the list's own map.
func (l *List) FetchValidWords(ctx context.Context) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return maps.Clone(l.allowed), nil
}

// Candidates returns the answers that are members of set. When set holds no
// answer at all, every member of set is a candidate.
func (l *List) Candidates(set Set) []string {
	var out []string
	for _, w := range l.answers {
		if _, ok := set[w]; ok {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return set.Sorted()
	}
	return out
}

// PickTarget draws a uniformly random candidate from set.
func (l *List) PickTarget(set Set) (string, error) {
	return pick(l.Candidates(set), l.intn)
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowed)
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := assets.ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// keep filters a list down to WordLength alphabetic words.
func keep(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = Normalize(w)
		if len(w) == WordLength && IsAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// pick returns a random element of cands using intn.
func pick(cands []string, intn func(n int) (int, error)) (string, error) {
	if len(cands) == 0 {
		return "", ErrEmptyWordSet
	}
	i, err := intn(len(cands))
	if err != nil {
		return "", fmt.Errorf("pick target: %w", err)
	}
	return cands[i], nil
}

// cryptoIntn returns a cryptographically random int in [0, n).
func cryptoIntn(n int) (int, error) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(nBig.Int64()), nil
}
