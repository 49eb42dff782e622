// internal/game/keys.go

package game

import "maps"

// KeyState maps a letter to the best verdict seen for it this round.
// Letters that were never guessed are absent from the map (Unseen).
type KeyState map[string]Verdict

// Merge folds a scored guess into k, keeping the higher verdict per letter:
// CorrectPosition > WrongPosition > Absent > Unseen.
func (k KeyState) Merge(word string, res GuessResult) {
	for i := 0; i < len(word) && i < len(res); i++ {
		letter := word[i : i+1]
		if res[i] > k[letter] {
			k[letter] = res[i]
		}
	}
}

// Get returns the verdict for letter, Unseen if it was never guessed.
func (k KeyState) Get(letter string) Verdict { return k[letter] }

// Clone returns an independent copy.
func (k KeyState) Clone() KeyState {
	if k == nil {
		return KeyState{}
	}
	return maps.Clone(k)
}
