// internal/game/stats.go
//
// Statistics over finished rounds. The summary is always derived from the
// full record sequence; nothing is cached between calls.

package game

// StatsSummary aggregates a sequence of GameRecords.
type StatsSummary struct {
	TotalGames           int     `json:"totalGames"`
	Wins                 int     `json:"wins"`
	PercentageWon        float64 `json:"percentageWon"`
	AverageAttemptsOnWin float64 `json:"averageAttemptsOnWin"`
	CurrentStreak        int     `json:"currentStreak"`
	MaxStreak            int     `json:"maxStreak"`
	// Distribution[i] counts wins that took i+1 guesses.
	Distribution [MaxAttempts]int `json:"distribution"`
}

// Summarize computes the summary of records. Percentages and averages are 0
// when there is nothing to divide by.
func Summarize(records []GameRecord) StatsSummary {
	s := StatsSummary{TotalGames: len(records)}

	var attempts, streak int
	for _, r := range records {
		if !r.Solved {
			streak = 0
			continue
		}
		s.Wins++
		attempts += r.Guesses
		streak++
		s.MaxStreak = max(s.MaxStreak, streak)
		if r.Guesses >= 1 && r.Guesses <= MaxAttempts {
			s.Distribution[r.Guesses-1]++
		}
	}
	s.CurrentStreak = streak

	if s.TotalGames > 0 {
		s.PercentageWon = float64(s.Wins) / float64(s.TotalGames) * 100
	}
	if s.Wins > 0 {
		s.AverageAttemptsOnWin = float64(attempts) / float64(s.Wins)
	}
	return s
}
