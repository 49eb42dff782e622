package store

import "github.com/robalobadob/wordle-engine/internal/words"

// newTestList has no answer containing the letters of "fjord".
func newTestList() (*words.List, error) {
	return words.NewList([]string{"crane", "slate", "table"}, []string{"fjord"})
}
