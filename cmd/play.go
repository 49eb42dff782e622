package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-engine/assets"
	"github.com/robalobadob/wordle-engine/internal/daily"
	"github.com/robalobadob/wordle-engine/internal/game"
	"github.com/robalobadob/wordle-engine/internal/words"
)

func newPlayCmd() *cobra.Command {
	var dailyFlag bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal. Type a five-letter word and press enter.

Commands:
  :rules   show the rules
  :stats   show your statistics
  :new     give up and start a new word
  :quit    leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})

			src, err := newWordSource(cfg)
			if err != nil {
				return err
			}
			scorer, err := game.ScorerByName(cfg.Scoring)
			if err != nil {
				return err
			}
			var ws game.WordSource = src
			if dailyFlag {
				ws = daily.NewSource(src, cfg.DailySalt)
			}
			ctrl := game.NewController(ws, game.WithScorer(scorer), game.WithLogger(log.Logger))
			return newTerminal(ctrl, cmd.InOrStdin(), cmd.OutOrStdout()).run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&dailyFlag, "daily", false, "play the word of the day")

	return cmd
}

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// terminal is a line-based game loop over one controller.
type terminal struct {
	ctrl  *game.Controller
	in    *bufio.Scanner
	out   io.Writer
	plain bool // no colour: verdicts are drawn with brackets

	hit, present, miss, unseen lipgloss.Style
}

func newTerminal(ctrl *game.Controller, in io.Reader, out io.Writer) *terminal {
	r := lipgloss.NewRenderer(out)
	tile := r.NewStyle().Bold(true).Padding(0, 1)
	return &terminal{
		ctrl:    ctrl,
		in:      bufio.NewScanner(in),
		out:     out,
		plain:   r.ColorProfile() == termenv.Ascii,
		hit:     tile.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("2")),
		present: tile.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")),
		miss:    tile.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
		unseen:  tile,
	}
}

func (t *terminal) run(ctx context.Context) error {
	t.printf("Guess the word in %d tries. Type :rules for help, :quit to leave.\n", game.MaxAttempts)
	if t.startRound(ctx) {
		t.render()
	}

	for t.prompt(); t.in.Scan(); t.prompt() {
		line := strings.TrimSpace(t.in.Text())
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":rules":
			t.printf("\n%s\n", assets.Rules())
			continue
		case ":stats":
			t.printStats(ctx)
			continue
		case ":new":
			t.newRound(ctx)
			continue
		}

		if _, err := t.ctrl.SubmitGuess(ctx, line); err != nil {
			switch {
			case errors.Is(err, game.ErrLengthMismatch):
				t.printf("Guesses must be %d letters.\n", words.WordLength)
			case errors.Is(err, game.ErrInvalidWord):
				t.printf("Not in word list.\n")
			case errors.Is(err, words.ErrSourceUnavailable):
				t.printf("Word list unavailable, try again.\n")
			case errors.Is(err, game.ErrNoRound):
				// the last StartRound failed; try again before the next guess
				t.printf("No word in play.\n")
				t.newRound(ctx)
			default:
				return err
			}
			continue
		}
		t.render()

		v, _ := t.ctrl.Round()
		switch v.Status {
		case game.Won:
			t.printf("You won in %s!\n", game.GuessesLabel(v.Attempt))
		case game.Lost:
			t.printf("You lost! The word was %s.\n", strings.ToUpper(v.Target))
		default:
			continue
		}
		if err := t.ctrl.RecordAndReset(ctx); err != nil {
			return err
		}
		t.printStats(ctx)
		t.newRound(ctx)
	}
	return t.in.Err()
}

// startRound starts a round, reporting failures instead of returning them so
// the player can retry with :new or another guess.
func (t *terminal) startRound(ctx context.Context) bool {
	if err := t.ctrl.StartRound(ctx); err != nil {
		t.printf("Could not start a round: %v (type :new to retry)\n", err)
		return false
	}
	return true
}

func (t *terminal) newRound(ctx context.Context) {
	if !t.startRound(ctx) {
		return
	}
	t.printf("\nNew word!\n")
	t.render()
}

func (t *terminal) prompt() { t.printf("> ") }

// render draws the board and the letter key.
func (t *terminal) render() {
	v, ok := t.ctrl.Round()
	if !ok {
		return
	}
	var b strings.Builder
	for _, g := range v.History {
		for i := 0; i < len(g.Word); i++ {
			b.WriteString(t.tile(g.Word[i], g.Result[i]))
		}
		b.WriteByte('\n')
	}
	for i := len(v.History); i < v.MaxAttempts; i++ {
		b.WriteString(strings.Repeat(t.unseen.Render("_"), v.WordLength))
		b.WriteByte('\n')
	}

	keys := t.ctrl.KeyState()
	b.WriteByte('\n')
	for _, row := range keyboardRows {
		for i := 0; i < len(row); i++ {
			b.WriteString(t.tile(row[i], keys.Get(string(row[i]))))
		}
		b.WriteByte('\n')
	}
	t.printf("\n%s", b.String())
}

func (t *terminal) tile(c byte, v game.Verdict) string {
	letter := strings.ToUpper(string(c))
	if t.plain {
		switch v {
		case game.CorrectPosition:
			return "[" + letter + "]"
		case game.WrongPosition:
			return "(" + letter + ")"
		case game.Absent:
			return " " + strings.ToLower(letter) + " "
		}
		return " " + letter + " "
	}
	switch v {
	case game.CorrectPosition:
		return t.hit.Render(letter)
	case game.WrongPosition:
		return t.present.Render(letter)
	case game.Absent:
		return t.miss.Render(letter)
	}
	return t.unseen.Render(letter)
}

// printStats renders the summary and the guess distribution as tables.
func (t *terminal) printStats(ctx context.Context) {
	sum, err := t.ctrl.StatsSummary(ctx)
	if err != nil {
		t.printf("Statistics unavailable: %v\n", err)
		return
	}

	table := tablewriter.NewWriter(t.out)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Played", "Win %", "Avg guesses", "Streak", "Max streak"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.Append([]string{
		fmt.Sprintf("%d", sum.TotalGames),
		fmt.Sprintf("%.0f", sum.PercentageWon),
		fmt.Sprintf("%.2f", sum.AverageAttemptsOnWin),
		fmt.Sprintf("%d", sum.CurrentStreak),
		fmt.Sprintf("%d", sum.MaxStreak),
	})
	t.printf("\n")
	table.Render()

	dist := tablewriter.NewWriter(t.out)
	dist.SetAutoFormatHeaders(false)
	dist.SetHeader([]string{"Guesses", "Wins", ""})
	dist.SetBorder(false)
	dist.SetCenterSeparator("")
	dist.SetColumnAlignment([]int{tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	for i, n := range sum.Distribution {
		dist.Append([]string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", n), strings.Repeat("#", n)})
	}
	dist.Render()
}

func (t *terminal) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}
