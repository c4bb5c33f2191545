package entity

import "strings"

const botIDPrefix = "bot:"

type Player struct {
	ID     string `json:"id"`
	Color  string `json:"color,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, botIDPrefix)
}

// NewBotPlayer creates the artificial opponent seat for a bot game.
func NewBotPlayer(gameID, color string) *Player {
	return &Player{
		ID:     botIDPrefix + gameID,
		Color:  color,
		GameID: gameID,
	}
}
