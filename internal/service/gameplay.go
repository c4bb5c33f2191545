package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/mill-backend/internal/apperror"
	"github.com/rocketscienceinc/mill-backend/internal/entity"
	"github.com/rocketscienceinc/mill-backend/internal/mill"
)

// botActionsPerTurn bounds the bot follow-up after a human action: at most a
// set/move plus the removal owed for a closed mill.
const botActionsPerTurn = 2

type GamePlayService interface {
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error)

	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)

	PlaceStone(ctx context.Context, playerID string, position int) (*entity.Game, error)
	MoveStone(ctx context.Context, playerID string, from, to int) (*entity.Game, error)
	RemoveStone(ctx context.Context, playerID string, position int) (*entity.Game, error)
	ResetGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type resultRepo interface {
	SaveResult(ctx context.Context, gameID, winner string) error
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService
	controller    *mill.Controller
	resultRepo    resultRepo
}

func NewGamePlayService(
	logger *slog.Logger,
	playerService PlayerService,
	gameService GameService,
	botService BotService,
	controller *mill.Controller,
	resultRepo resultRepo,
) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
		controller:    controller,
		resultRepo:    resultRepo,
	}
}

// GetOrCreateGame returns the player's current game or opens a new one. Bot
// games start immediately with the bot seated as black.
func (that *gamePlayService) GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	if player.GameID != "" {
		game, err := that.gameService.GetGameByID(ctx, player.GameID)
		if err == nil && !game.IsFinished() {
			return game, nil
		}
		if err == nil {
			that.CleanupGame(ctx, game)
		}
	}

	game, err := that.gameService.CreateGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if game.IsWithBot() {
		botPlayer := entity.NewBotPlayer(game.ID, entity.ColorBlack)
		game.Players = append(game.Players, botPlayer)
		game.Status = entity.StatusOngoing

		if err = that.gameService.UpdateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	return game, nil
}

func (that *gamePlayService) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, gameID)
	}

	creatorColor, joinerColor := game.GetRandomColors()
	for _, seated := range game.Players {
		seated.Color = creatorColor
		if err = that.playerService.UpdatePlayer(ctx, seated); err != nil {
			return nil, fmt.Errorf("failed to update player: %w", err)
		}
	}

	player.GameID = game.ID
	player.Color = joinerColor
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gameService.GetWaitingPublicGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get waiting public game: %w", err)
	}

	return that.JoinGameByID(ctx, game.ID, playerID)
}

func (that *gamePlayService) PlaceStone(ctx context.Context, playerID string, position int) (*entity.Game, error) {
	return that.applyAction(ctx, playerID, func(game *entity.Game, color string) error {
		return that.controller.Place(game, color, position)
	})
}

func (that *gamePlayService) MoveStone(ctx context.Context, playerID string, from, to int) (*entity.Game, error) {
	return that.applyAction(ctx, playerID, func(game *entity.Game, color string) error {
		return that.controller.Move(game, color, from, to)
	})
}

func (that *gamePlayService) RemoveStone(ctx context.Context, playerID string, position int) (*entity.Game, error) {
	return that.applyAction(ctx, playerID, func(game *entity.Game, color string) error {
		return that.controller.Remove(game, color, position)
	})
}

// ResetGame starts the finished game over, keeping both seats.
func (that *gamePlayService) ResetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = that.controller.Reset(game); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// applyAction runs one validated game action for the player, lets the bot
// answer when it is seated, archives the result once the game finishes and
// persists the updated snapshot.
func (that *gamePlayService) applyAction(ctx context.Context, playerID string, action func(game *entity.Game, color string) error) (*entity.Game, error) {
	log := that.logger.With("method", "applyAction")

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if game.IsWaiting() {
		return nil, apperror.ErrGameIsNotStarted
	}

	if err = action(game, player.Color); err != nil {
		return game, err
	}

	for i := 0; i < botActionsPerTurn && game.IsWithBot() && game.IsOngoing(); i++ {
		if err = that.botService.MakeTurn(game); err != nil {
			if errors.Is(err, ErrNoAvailableMoves) {
				that.finishBlockedGame(game)
				break
			}

			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if game.IsFinished() {
		if err = that.resultRepo.SaveResult(ctx, game.ID, game.Winner); err != nil {
			log.Error("failed to archive game result", "gameID", game.ID, "error", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// finishBlockedGame ends the game when the bot has no legal action left: a
// color that cannot act loses, so the opposing seat wins.
func (that *gamePlayService) finishBlockedGame(game *entity.Game) {
	winner := entity.ColorWhite
	for _, player := range game.Players {
		if player.IsBot() && player.Color == entity.ColorWhite {
			winner = entity.ColorBlack
		}
	}

	game.Status = entity.StatusFinished
	game.Phase = "finished"
	game.NextAction = "reset"
	game.Turn = ""
	game.Winner = winner
}

// CleanupGame drops a finished game and detaches its players.
func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "CleanupGame")

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		player.GameID = ""
		player.Color = ""
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to detach player", "playerID", player.ID, "error", err)
		}
	}

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "gameID", game.ID, "error", err)
	}
}
