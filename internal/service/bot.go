package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/mill-backend/internal/board"
	"github.com/rocketscienceinc/mill-backend/internal/entity"
	"github.com/rocketscienceinc/mill-backend/internal/mill"
	"github.com/rocketscienceinc/mill-backend/internal/rules"
	"github.com/rocketscienceinc/mill-backend/internal/topology"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
}

// botService is an event-driven opponent: it asks the rules engine what has
// to happen next, collects the legal options and picks one at random.
type botService struct {
	controller *mill.Controller
}

func NewBotService(controller *mill.Controller) BotService {
	return &botService{
		controller: controller,
	}
}

func (that *botService) MakeTurn(game *entity.Game) error {
	var botPlayer *entity.Player
	for _, player := range game.Players {
		if player.IsBot() {
			botPlayer = player
			break
		}
	}

	if botPlayer == nil {
		return ErrBotNotFound
	}

	_, engine, err := that.controller.Restore(game)
	if err != nil {
		return fmt.Errorf("failed to restore game: %w", err)
	}

	color := board.Color(botPlayer.Color)
	if !engine.IsTurn(color) {
		return nil
	}

	switch engine.NextAction() {
	case rules.ActionSet:
		return that.placeStone(game, engine, botPlayer.Color)
	case rules.ActionMove:
		return that.moveStone(game, engine, botPlayer.Color)
	case rules.ActionRemove:
		return that.removeStone(game, engine, botPlayer.Color)
	default:
		return nil
	}
}

func (that *botService) placeStone(game *entity.Game, engine *rules.Engine, color string) error {
	available := make([]int, 0, topology.PositionCount)
	for position := 0; position < topology.PositionCount; position++ {
		if engine.CanPlace(position, board.Color(color)) {
			available = append(available, position)
		}
	}

	if len(available) == 0 {
		return ErrNoAvailableMoves
	}

	chosen := available[rand.Intn(len(available))] //nolint: gosec // it's ok

	if err := that.controller.Place(game, color, chosen); err != nil {
		return fmt.Errorf("bot failed to place stone: %w", err)
	}

	return nil
}

func (that *botService) moveStone(game *entity.Game, engine *rules.Engine, color string) error {
	type move struct {
		from, to int
	}

	available := make([]move, 0, topology.PositionCount)
	for from := 0; from < topology.PositionCount; from++ {
		if game.Board[from] != color {
			continue
		}
		for to := 0; to < topology.PositionCount; to++ {
			if engine.MayMove(from, to) {
				available = append(available, move{from: from, to: to})
			}
		}
	}

	if len(available) == 0 {
		return ErrNoAvailableMoves
	}

	chosen := available[rand.Intn(len(available))] //nolint: gosec // it's ok

	if err := that.controller.Move(game, color, chosen.from, chosen.to); err != nil {
		return fmt.Errorf("bot failed to move stone: %w", err)
	}

	return nil
}

func (that *botService) removeStone(game *entity.Game, engine *rules.Engine, color string) error {
	available := make([]int, 0, topology.PositionCount)
	for position := 0; position < topology.PositionCount; position++ {
		if engine.MayRemove(position) {
			available = append(available, position)
		}
	}

	if len(available) == 0 {
		return ErrNoAvailableMoves
	}

	chosen := available[rand.Intn(len(available))] //nolint: gosec // it's ok

	if err := that.controller.Remove(game, color, chosen); err != nil {
		return fmt.Errorf("bot failed to remove stone: %w", err)
	}

	return nil
}
