package entity

import "github.com/rocketscienceinc/tictactoe-web/internal/sound"

// Session binds one browser session to its game and the state of its victory sound cue.
type Session struct {
	ID    string        `json:"id"`
	Game  *Game         `json:"game"`
	Sound sound.Trigger `json:"sound"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Game: NewGame(id),
	}
}

func (that *Session) Clone() *Session {
	clone := *that
	if that.Game != nil {
		clone.Game = that.Game.Clone()
	}

	return &clone
}
