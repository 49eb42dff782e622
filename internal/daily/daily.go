// internal/daily/daily.go
//
// Daily Challenge word selection. Every player gets the same target on the
// same UTC date: the index into the candidate list is
// HMAC-SHA256(salt, YYYY-MM-DD) mod len(candidates).

package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordle-engine/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Lister is a word source that can name its target candidates.
// words.List and words.HTTPSource satisfy it.
type Lister interface {
	FetchValidWords(ctx context.Context) (words.Set, error)
	Candidates(set words.Set) []string
}

// Source serves the valid words of the wrapped Lister and picks the day's
// target instead of a random one.
type Source struct {
	next Lister
	salt string
	now  func() time.Time
}

// NewSource wraps next with date-keyed target selection.
func NewSource(next Lister, salt string) *Source {
	return &Source{next: next, salt: salt, now: time.Now}
}

// FetchValidWords delegates to the wrapped source.
func (s *Source) FetchValidWords(ctx context.Context) (words.Set, error) {
	return s.next.FetchValidWords(ctx)
}

// PickTarget returns today's candidate from set.
func (s *Source) PickTarget(set words.Set) (string, error) {
	cands := s.next.Candidates(set)
	if len(cands) == 0 {
		return "", words.ErrEmptyWordSet
	}
	return cands[WordIndex(s.now(), s.salt, len(cands))], nil
}

// Date returns the current date key.
func (s *Source) Date() string { return DateKey(s.now()) }
