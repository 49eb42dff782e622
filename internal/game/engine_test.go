package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	h = CorrectPosition
	p = WrongPosition
	m = Absent
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		target string
		want   GuessResult
	}{
		{"exact match", "crane", "crane", GuessResult{h, h, h, h, h}},
		{"no shared letters", "build", "crane", GuessResult{m, m, m, m, m}},
		{"mixed", "trace", "crane", GuessResult{m, h, h, p, h}},
		{"all misplaced", "react", "crane", GuessResult{p, p, h, p, m}},
		// single pass: every "e" away from the last slot counts as present
		{"repeated letter", "eerie", "crane", GuessResult{p, p, p, m, h}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.guess, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	first, err := Evaluate("stare", "crane")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Evaluate("stare", "crane")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	_, err := Evaluate("cranes", "crane")
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = EvaluateStrict("cran", "crane")
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestEvaluateStrict(t *testing.T) {
	tests := []struct {
		guess  string
		target string
		want   GuessResult
	}{
		{"crane", "crane", GuessResult{h, h, h, h, h}},
		{"trace", "crane", GuessResult{m, h, h, p, h}},
		{"eerie", "crane", GuessResult{m, m, p, m, h}},
		{"speed", "abide", GuessResult{m, m, p, m, p}},
	}
	for _, tt := range tests {
		t.Run(tt.guess+"/"+tt.target, func(t *testing.T) {
			got, err := EvaluateStrict(tt.guess, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScorerByName(t *testing.T) {
	for _, name := range []string{"", "classic", "standard"} {
		s, err := ScorerByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, s)
	}

	s, err := ScorerByName("standard")
	require.NoError(t, err)
	got, err := s("eerie", "crane")
	require.NoError(t, err)
	assert.Equal(t, GuessResult{m, m, p, m, h}, got)

	_, err = ScorerByName("fuzzy")
	require.Error(t, err)
}

func TestVerdict_JSON(t *testing.T) {
	b, err := json.Marshal(GuessResult{h, p, m})
	require.NoError(t, err)
	assert.JSONEq(t, `["hit","present","miss"]`, string(b))

	var back GuessResult
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, GuessResult{h, p, m}, back)

	var v Verdict
	require.Error(t, v.UnmarshalText([]byte("green")))
}

func TestGuessResult_Solved(t *testing.T) {
	assert.True(t, GuessResult{h, h}.Solved())
	assert.False(t, GuessResult{h, p}.Solved())
	assert.False(t, GuessResult{}.Solved())
}

func TestGuessesLabel(t *testing.T) {
	assert.Equal(t, "1 guess", GuessesLabel(1))
	assert.Equal(t, "4 guesses", GuessesLabel(4))
}
