package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/mill-backend/internal/entity"
)

// GameUseCase is the surface the transports talk to.
type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	CreateOrJoinToPublicGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	PlaceStone(ctx context.Context, playerID string, position int) (*entity.Game, error)
	MoveStone(ctx context.Context, playerID string, from, to int) (*entity.Game, error)
	RemoveStone(ctx context.Context, playerID string, position int) (*entity.Game, error)
	ResetGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
	UpdatePlayer(ctx context.Context, player *entity.Player) error
}

type gameService interface {
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gamePlayService interface {
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error)

	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error)

	PlaceStone(ctx context.Context, playerID string, position int) (*entity.Game, error)
	MoveStone(ctx context.Context, playerID string, from, to int) (*entity.Game, error)
	RemoveStone(ctx context.Context, playerID string, position int) (*entity.Game, error)
	ResetGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type gameUseCase struct {
	playerService   playerService
	gameService     gameService
	gamePlayService gamePlayService
}

func NewGameUseCase(playerService playerService, gameService gameService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		playerService:   playerService,
		gameService:     gameService,
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player, err := that.playerService.CreatePlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	game, err := that.gamePlayService.GetOrCreateGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create game: %w", err)
	}

	return game, nil
}

// CreateOrJoinToPublicGame pairs the player with a waiting opponent or opens
// a fresh public game for the next one.
func (that *gameUseCase) CreateOrJoinToPublicGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinWaitingPublicGame(ctx, playerID)
	if err == nil {
		return game, nil
	}

	return that.GetOrCreateGame(ctx, playerID, gameType)
}

func (that *gameUseCase) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinGameByID(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) PlaceStone(ctx context.Context, playerID string, position int) (*entity.Game, error) {
	game, err := that.gamePlayService.PlaceStone(ctx, playerID, position)
	if err != nil {
		return game, fmt.Errorf("failed to place stone: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) MoveStone(ctx context.Context, playerID string, from, to int) (*entity.Game, error) {
	game, err := that.gamePlayService.MoveStone(ctx, playerID, from, to)
	if err != nil {
		return game, fmt.Errorf("failed to move stone: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) RemoveStone(ctx context.Context, playerID string, position int) (*entity.Game, error) {
	game, err := that.gamePlayService.RemoveStone(ctx, playerID, position)
	if err != nil {
		return game, fmt.Errorf("failed to remove stone: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) ResetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.ResetGame(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	return game, nil
}
