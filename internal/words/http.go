// internal/words/http.go
//
// Remote word source. The word API answers GET <url> with a JSON array whose
// entries are either plain strings or objects carrying a "word" field:
//
//	[{"word":"crane"},{"word":"slate"}]
//	["crane","slate"]
//
// Every FetchValidWords call performs a new request; nothing is cached, so a
// failed fetch is never papered over with an older list.

package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSource fetches the valid word list from a remote API.
type HTTPSource struct {
	url    string
	client *http.Client
	intn   func(n int) (int, error)
}

// NewHTTPSource returns a source for url. timeout bounds each request; zero
// means no client-side timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		intn:   cryptoIntn,
	}
}

// wordEntry is the object form of a list entry.
type wordEntry struct {
	Word string `json:"word"`
}

// FetchValidWords requests the list and decodes it into a Set, keeping only
// WordLength alphabetic words.
// Transport, status and decoding failures all wrap ErrSourceUnavailable.
func (s *HTTPSource) FetchValidWords(ctx context.Context) (Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrSourceUnavailable, s.url, resp.StatusCode)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSourceUnavailable, err)
	}

	set := make(Set, len(raw))
	for _, item := range raw {
		var w string
		if err := json.Unmarshal(item, &w); err != nil {
			var e wordEntry
			if err := json.Unmarshal(item, &e); err != nil {
				continue
			}
			w = e.Word
		}
		if len(Normalize(w)) != WordLength {
			continue
		}
		set.Add(w)
	}
	return set, nil
}

// Candidates returns every member of set; the remote list has no separate
// answer list.
func (s *HTTPSource) Candidates(set Set) []string { return set.Sorted() }

// PickTarget draws a uniformly random member of set.
func (s *HTTPSource) PickTarget(set Set) (string, error) {
	return pick(s.Candidates(set), s.intn)
}
