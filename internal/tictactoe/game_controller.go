package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const (
	startLabel = "Go to game start"
	moveLabel  = "Go to move #%d"
	drawStatus = "draw"
)

// EvaluateWinner returns the first winning line found on the board.
func EvaluateWinner(board entity.Board) (entity.Winner, bool) {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Winner{Mark: a, Line: combo}, true
		}
	}

	return entity.Winner{}, false
}

// ApplyMove places the active player's mark on cell. A move on a decided board or an
// occupied cell is ignored and reports false; the game is left untouched.
func ApplyMove(gameInstance *entity.Game, cell int) (bool, error) {
	if cell < 0 || cell >= entity.BoardSize {
		return false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	board := gameInstance.CurrentBoard()

	if _, decided := EvaluateWinner(board); decided || board[cell] != entity.EmptyCell {
		return false, nil
	}

	board[cell] = gameInstance.Turn

	// drop any future states left over from jumping back
	history := make([]entity.Board, gameInstance.Step+1, gameInstance.Step+2)
	copy(history, gameInstance.History[:gameInstance.Step+1])

	gameInstance.History = append(history, board)
	gameInstance.Step = len(gameInstance.History) - 1
	gameInstance.Turn = entity.ToggleMark(gameInstance.Turn)
	gameInstance.WinningLine = winningLine(board)

	return true, nil
}

// JumpToStep displays a historical step without discarding later ones.
func JumpToStep(gameInstance *entity.Game, step int) error {
	if step < 0 || step >= len(gameInstance.History) {
		return fmt.Errorf("%w: step %d of %d", apperror.ErrInvalidStep, step, len(gameInstance.History))
	}

	gameInstance.Step = step
	gameInstance.Turn = entity.TurnForStep(step)
	gameInstance.WinningLine = winningLine(gameInstance.History[step])

	return nil
}

// Reset replaces the game with a fresh one, keeping its ID.
func Reset(gameInstance *entity.Game) {
	*gameInstance = *entity.NewGame(gameInstance.ID)
}

// StatusText is the line shown above the move list.
func StatusText(gameInstance *entity.Game) string {
	board := gameInstance.CurrentBoard()

	if winner, ok := EvaluateWinner(board); ok {
		return "Winner: " + winner.Mark
	}

	if board.IsFull() {
		return drawStatus
	}

	return "Next player: " + gameInstance.Turn
}

// Outcome reports the game status and, once finished, the winner mark or
// entity.PlayerTie for a draw.
func Outcome(gameInstance *entity.Game) (string, string) {
	board := gameInstance.CurrentBoard()

	if winner, ok := EvaluateWinner(board); ok {
		return entity.StatusFinished, winner.Mark
	}

	if board.IsFull() {
		return entity.StatusFinished, entity.PlayerTie
	}

	return entity.StatusOngoing, ""
}

// MoveLabel is the caption of the history control for step.
func MoveLabel(step int) string {
	if step == 0 {
		return startLabel
	}

	return fmt.Sprintf(moveLabel, step)
}

func winningLine(board entity.Board) []int {
	winner, ok := EvaluateWinner(board)
	if !ok {
		return nil
	}

	return winner.Line[:]
}
