package cmd

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-engine/internal/config"
	"github.com/robalobadob/wordle-engine/internal/store"
	"github.com/robalobadob/wordle-engine/internal/words"
)

// fixedSource serves a small set and always picks target.
type fixedSource struct {
	set    words.Set
	target string
}

func (f *fixedSource) FetchValidWords(context.Context) (words.Set, error) { return f.set, nil }
func (f *fixedSource) Candidates(words.Set) []string { return []string{f.target} }
func (f *fixedSource) PickTarget(words.Set) (string, error) { return f.target, nil }

// flakySource fails the fetches whose 1-based numbers are listed in failOn.
type flakySource struct {
	fixedSource
	fetches int
	failOn  map[int]bool
}

func (f *flakySource) FetchValidWords(ctx context.Context) (words.Set, error) {
	f.fetches++
	if f.failOn[f.fetches] {
		return nil, words.ErrSourceUnavailable
	}
	return f.fixedSource.FetchValidWords(ctx)
}

func useSource(t *testing.T, target string) {
	t.Helper()
	orig := newWordSource
	newWordSource = func(config.Config) (wordSource, error) {
		return &fixedSource{set: words.NewSet("crane", "slate", "pizza", target), target: target}, nil
	}
	t.Cleanup(func() { newWordSource = orig })
}

func runPlay(t *testing.T, input string, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir()) // no stray .env
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"play"}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestPlay_WinThenStats(t *testing.T) {
	useSource(t, "crane")

	out := runPlay(t, "slate\nzzzzz\ncran\ncrane\n:stats\n:rules\n:quit\n")

	assert.Contains(t, out, "Guess the word in 6 tries.")
	assert.Contains(t, out, " s  l [A] t [E]")
	assert.Contains(t, out, "Not in word list.")
	assert.Contains(t, out, "Guesses must be 5 letters.")
	assert.Contains(t, out, "[C][R][A][N][E]")
	assert.Contains(t, out, "You won in 2 guesses!")
	assert.Contains(t, out, "New word!")
	assert.Contains(t, out, "Played")
	assert.Contains(t, out, "Avg guesses")
	assert.Contains(t, out, "in six tries")
}

func TestPlay_Loss(t *testing.T) {
	useSource(t, "crane")

	out := runPlay(t, strings.Repeat("pizza\n", 6)+":quit\n")

	assert.Contains(t, out, "You lost! The word was CRANE.")
	assert.Contains(t, out, "(A)")
}

func TestPlay_DailyAndEOF(t *testing.T) {
	useSource(t, "slate")

	out := runPlay(t, "slate\n", "--daily")

	assert.Contains(t, out, "You won in 1 guess!")
}

func TestPlay_RecoversFromFailedNewRound(t *testing.T) {
	// fetch 1 starts the round, 2 checks "crane", 3 is the next start
	src := &flakySource{
		fixedSource: fixedSource{set: words.NewSet("crane", "slate"), target: "crane"},
		failOn:      map[int]bool{3: true},
	}
	orig := newWordSource
	newWordSource = func(config.Config) (wordSource, error) { return src, nil }
	t.Cleanup(func() { newWordSource = orig })

	out := runPlay(t, "crane\nslate\nslate\n:quit\n")

	assert.Contains(t, out, "You won in 1 guess!")
	assert.Contains(t, out, "Could not start a round")
	assert.Contains(t, out, "No word in play.")
	assert.Contains(t, out, "New word!")
	assert.Contains(t, out, " s  l [A] t [E]")
}

func TestPlay_StartupFailureIsNotFatal(t *testing.T) {
	src := &flakySource{
		fixedSource: fixedSource{set: words.NewSet("crane", "slate"), target: "crane"},
		failOn:      map[int]bool{1: true},
	}
	orig := newWordSource
	newWordSource = func(config.Config) (wordSource, error) { return src, nil }
	t.Cleanup(func() { newWordSource = orig })

	out := runPlay(t, ":new\ncrane\n:quit\n")

	assert.Contains(t, out, "type :new to retry")
	assert.Contains(t, out, "You won in 1 guess!")
}

func TestPlay_BadScoring(t *testing.T) {
	useSource(t, "crane")
	t.Setenv("SCORING", "fuzzy")
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"play"})
	assert.Error(t, cmd.Execute())
}

func TestServe_RoutesAndShutdown(t *testing.T) {
	useSource(t, "crane")
	t.Chdir(t.TempDir())
	cfg, err := loadConfig()
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, ln) }()

	res, err := http.Get(base + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(base + "/daily")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestNewWordSource_Embedded(t *testing.T) {
	src, err := newWordSource(config.Default())
	require.NoError(t, err)
	set, err := src.FetchValidWords(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Contains("crane"))
	assert.NotEmpty(t, src.Candidates(set))

	cfg := config.Default()
	cfg.Words.URL = "http://127.0.0.1:1/words"
	src, err = newWordSource(cfg)
	require.NoError(t, err)
	_, err = src.FetchValidWords(context.Background())
	assert.ErrorIs(t, err, words.ErrSourceUnavailable)
}

func TestSweepSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions := store.NewMemoryStore()
	require.NoError(t, sessions.Save(ctx, &store.Session{PlayerID: "gone", Mode: "random", LastSeen: time.Now().Add(-time.Hour)}))
	require.NoError(t, sessions.Save(ctx, &store.Session{PlayerID: "here", Mode: "random", LastSeen: time.Now().Add(time.Hour)}))

	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, sessions, time.Minute, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sessions.Len() == 1 }, 2*time.Second, 5*time.Millisecond)
	_, err := sessions.Get(ctx, store.Key("here", "random"))
	assert.NoError(t, err)

	cancel()
	<-done
	assert.Equal(t, time.Minute, sweepInterval(time.Hour))
	assert.Equal(t, 15*time.Second, sweepInterval(time.Minute))
}
