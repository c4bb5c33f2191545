package entity

import (
	"math/rand"

	"github.com/rocketscienceinc/mill-backend/internal/topology"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	ColorWhite = "white"
	ColorBlack = "black"

	EmptyPosition = ""
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

// Game is the serializable snapshot of one mill game: the 24-position board
// plus the rules-engine state needed to restore it.
type Game struct {
	ID             string                         `json:"id"`
	Board          [topology.PositionCount]string `json:"board"`
	Phase          string                         `json:"phase"`
	Turn           string                         `json:"player_turn"`
	NextAction     string                         `json:"next_action"`
	LastMover      string                         `json:"last_mover,omitempty"`
	PendingRemoval string                         `json:"pending_removal,omitempty"`
	PlacedWhite    int                            `json:"placed_white"`
	PlacedBlack    int                            `json:"placed_black"`
	Winner         string                         `json:"winner,omitempty"`
	Status         string                         `json:"status"`
	Players        []*Player                      `json:"players,omitempty"`
	Type           string                         `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:         id,
		Phase:      "setting",
		Turn:       ColorWhite,
		NextAction: "set",
		Status:     StatusWaiting,
		Type:       gameType,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// CountStones returns the live stone count of the color on the snapshot.
func (that *Game) CountStones(color string) int {
	count := 0
	for _, occupant := range that.Board {
		if occupant == color {
			count++
		}
	}

	return count
}

// GetRandomColors deals the colors for the two seats in random order.
func (that *Game) GetRandomColors() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return ColorWhite, ColorBlack
	}
	return ColorBlack, ColorWhite
}
