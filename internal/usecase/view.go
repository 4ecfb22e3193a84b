package usecase

import (
	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/sound"
	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

// Move is one entry of the history list.
type Move struct {
	Step    int    `json:"step"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// View is everything the rendering layer needs to draw one frame.
type View struct {
	SessionID   string       `json:"session_id"`
	Board       entity.Board `json:"board"`
	Step        int          `json:"step"`
	Turn        string       `json:"player_turn"`
	Status      string       `json:"status"`
	Outcome     string       `json:"outcome"`
	Winner      string       `json:"winner,omitempty"`
	WinningLine []int        `json:"winning_line"`
	Moves       []Move       `json:"moves"`
	Sound       *sound.Cue   `json:"sound,omitempty"`
}

// HasWinner is the signal the sound trigger observes.
func (that *View) HasWinner() bool {
	return that.Outcome == entity.StatusFinished && that.Winner != entity.PlayerTie
}

func newView(session *entity.Session, cue *sound.Cue) *View {
	game := session.Game
	outcome, winner := tictactoe.Outcome(game)

	moves := lo.Map(game.History, func(_ entity.Board, step int) Move {
		return Move{
			Step:    step,
			Label:   tictactoe.MoveLabel(step),
			Current: step == game.Step,
		}
	})

	line := make([]int, len(game.WinningLine))
	copy(line, game.WinningLine)

	return &View{
		SessionID:   session.ID,
		Board:       game.CurrentBoard(),
		Step:        game.Step,
		Turn:        game.Turn,
		Status:      tictactoe.StatusText(game),
		Outcome:     outcome,
		Winner:      winner,
		WinningLine: line,
		Moves:       moves,
		Sound:       cue,
	}
}
