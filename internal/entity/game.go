package entity

import (
	"errors"
	"fmt"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const BoardSize = 9

// WinCombos lists every winning line in the order they are checked.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a row-major snapshot of the 9 cells.
type Board [BoardSize]string

// IsFull reports whether every cell is occupied.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// MarksCount returns the number of occupied cells.
func (that Board) MarksCount() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

// Winner is the result of a win check: the winning mark and its line.
type Winner struct {
	Mark string `json:"mark"`
	Line [3]int `json:"line"`
}

// Game is the authoritative state of one game: the move history, the step being
// displayed, whose turn it is at that step, and the highlighted winning line.
type Game struct {
	ID          string  `json:"id"`
	History     []Board `json:"history"`
	Step        int     `json:"step"`
	Turn        string  `json:"player_turn"`
	WinningLine []int   `json:"winning_line,omitempty"`
}

// NewGame returns a fresh game: a single empty board, step 0 and X to move.
func NewGame(id string) *Game {
	return &Game{
		ID:      id,
		History: []Board{{}},
		Step:    0,
		Turn:    PlayerX,
	}
}

// CurrentBoard returns the board at the displayed step.
func (that *Game) CurrentBoard() Board {
	return that.History[that.Step]
}

// Clone returns a deep copy, so history snapshots are never shared.
func (that *Game) Clone() *Game {
	clone := *that

	clone.History = make([]Board, len(that.History))
	copy(clone.History, that.History)

	if that.WinningLine != nil {
		clone.WinningLine = make([]int, len(that.WinningLine))
		copy(clone.WinningLine, that.WinningLine)
	}

	return &clone
}

// Validate checks that a decoded game can be played: the step points into the history,
// board k holds exactly k marks and the turn follows the step's parity.
func (that *Game) Validate() error {
	if len(that.History) == 0 {
		return errors.New("empty history")
	}

	if that.Step < 0 || that.Step >= len(that.History) {
		return fmt.Errorf("step %d outside history of %d", that.Step, len(that.History))
	}

	if that.Turn != TurnForStep(that.Step) {
		return fmt.Errorf("turn %q does not match step %d", that.Turn, that.Step)
	}

	for step, board := range that.History {
		if marks := board.MarksCount(); marks != step {
			return fmt.Errorf("board %d holds %d marks", step, marks)
		}
	}

	return nil
}

// TurnForStep returns the mark to move at the given step: X on even steps, O on odd ones.
func TurnForStep(step int) string {
	if step%2 == 0 {
		return PlayerX
	}

	return PlayerO
}

// ToggleMark returns the opposite mark.
func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}

	return PlayerX
}
