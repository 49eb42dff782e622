package words

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewList_AnswersAreAlwaysAllowed(t *testing.T) {
	l, err := NewList([]string{"Crane", " slate ", "toolong", "ab1de"}, []string{"eerie"})
	require.NoError(t, err)

	a, g := l.Stats()
	assert.Equal(t, 2, a)
	assert.Equal(t, 3, g)

	set, err := l.FetchValidWords(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Contains("crane"))
	assert.True(t, set.Contains("SLATE"))
	assert.True(t, set.Contains("eerie"))
	assert.False(t, set.Contains("toolong"))
}

func TestNewList_EmptyAnswers(t *testing.T) {
	_, err := NewList(nil, []string{"crane"})
	require.ErrorIs(t, err, ErrEmptyWordSet)
}

func TestList_FetchReturnsCopy(t *testing.T) {
	l, err := NewList([]string{"crane"}, nil)
	require.NoError(t, err)

	set, err := l.FetchValidWords(context.Background())
	require.NoError(t, err)
	set.Add("slate")

	again, err := l.FetchValidWords(context.Background())
	require.NoError(t, err)
	assert.False(t, again.Contains("slate"), "mutating a fetched set must not leak into the list")
}

func TestList_FetchCancelled(t *testing.T) {
	l, err := NewList([]string{"crane"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.FetchValidWords(ctx)
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestList_PickTargetUsesAnswersOnly(t *testing.T) {
	l, err := NewList([]string{"crane", "slate"}, []string{"eerie", "fjord"})
	require.NoError(t, err)

	var asked int
	l.intn = func(n int) (int, error) {
		asked = n
		return n - 1, nil
	}
	set, err := l.FetchValidWords(context.Background())
	require.NoError(t, err)

	got, err := l.PickTarget(set)
	require.NoError(t, err)
	assert.Equal(t, 2, asked, "only answers are candidates")
	assert.Equal(t, "slate", got)
}

func TestList_PickTargetFallsBackToSet(t *testing.T) {
	l, err := NewList([]string{"crane"}, nil)
	require.NoError(t, err)
	l.intn = func(int) (int, error) { return 0, nil }

	got, err := l.PickTarget(NewSet("fjord"))
	require.NoError(t, err)
	assert.Equal(t, "fjord", got)
}

func TestList_PickTargetEmptySet(t *testing.T) {
	l, err := NewList([]string{"crane"}, nil)
	require.NoError(t, err)

	_, err = l.PickTarget(Set{})
	require.ErrorIs(t, err, ErrEmptyWordSet)
}

func TestLoad_EmbeddedDefaults(t *testing.T) {
	l, err := Load("", "")
	require.NoError(t, err)

	a, g := l.Stats()
	assert.Greater(t, a, 100)
	assert.Greater(t, g, a)
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.txt")
	allowed := filepath.Join(dir, "allowed.txt")
	require.NoError(t, os.WriteFile(answers, []byte("# answers\nCRANE\nslate\n\n"), 0o644))
	require.NoError(t, os.WriteFile(allowed, []byte("eerie\nnope\n"), 0o644))

	l, err := Load(answers, allowed)
	require.NoError(t, err)
	a, g := l.Stats()
	assert.Equal(t, 2, a)
	assert.Equal(t, 3, g)

	only, err := Load("", allowed)
	require.NoError(t, err)
	a, g = only.Stats()
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, g)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), "")
	require.Error(t, err)
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet("slate", "crane", "ab3cd", "adieu")
	assert.Equal(t, []string{"adieu", "crane", "slate"}, s.Sorted())
	assert.Equal(t, 3, s.Len())
}
