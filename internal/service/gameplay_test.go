package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/mill-backend/internal/entity"
	"github.com/rocketscienceinc/mill-backend/internal/mill"
)

type fakePlayerService struct {
	players map[string]*entity.Player
}

func newFakePlayerService() *fakePlayerService {
	return &fakePlayerService{players: make(map[string]*entity.Player)}
}

func (that *fakePlayerService) CreatePlayer(_ context.Context) (*entity.Player, error) {
	player := &entity.Player{ID: fmt.Sprintf("player-%d", len(that.players)+1)}
	that.players[player.ID] = player

	return player, nil
}

func (that *fakePlayerService) GetPlayerByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s not found", id)
	}

	return player, nil
}

func (that *fakePlayerService) UpdatePlayer(_ context.Context, player *entity.Player) error {
	that.players[player.ID] = player

	return nil
}

type fakeGameService struct {
	games  map[string]*entity.Game
	nextID string
}

func newFakeGameService() *fakeGameService {
	return &fakeGameService{games: make(map[string]*entity.Game), nextID: "2000"}
}

func (that *fakeGameService) CreateGame(_ context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	game := entity.NewGame(that.nextID, gameType)

	player.GameID = game.ID
	player.Color = entity.ColorWhite
	game.Players = []*entity.Player{player}

	that.games[game.ID] = game

	return game, nil
}

func (that *fakeGameService) GetGameByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s not found", id)
	}

	return game, nil
}

func (that *fakeGameService) GetWaitingPublicGame(_ context.Context) (*entity.Game, error) {
	for _, game := range that.games {
		if game.IsPublic() && game.IsWaiting() {
			return game, nil
		}
	}

	return nil, fmt.Errorf("no waiting public game")
}

func (that *fakeGameService) UpdateGame(_ context.Context, game *entity.Game) error {
	that.games[game.ID] = game

	return nil
}

func (that *fakeGameService) DeleteGame(_ context.Context, gameID string) error {
	delete(that.games, gameID)

	return nil
}

type fakeResultRepo struct {
	saved map[string]string
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{saved: make(map[string]string)}
}

func (that *fakeResultRepo) SaveResult(_ context.Context, gameID, winner string) error {
	that.saved[gameID] = winner

	return nil
}

func newGamePlayFixture(t *testing.T) (GamePlayService, *fakePlayerService, *fakeGameService, *fakeResultRepo) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	controller := mill.NewController()
	players := newFakePlayerService()
	games := newFakeGameService()
	results := newFakeResultRepo()

	service := NewGamePlayService(logger, players, games, NewBotService(controller), controller, results)

	return service, players, games, results
}

func TestGamePlayService_BlockedBotLoses(t *testing.T) {
	ctx := context.Background()
	service, players, games, results := newGamePlayFixture(t)

	// Given: a bot game in the moving phase where every black stone is
	// enclosed by white; white still has a free stone on 19
	gameInstance := entity.NewGame("1000", entity.WithBotType)
	gameInstance.Status = entity.StatusOngoing
	gameInstance.Phase = "moving"
	gameInstance.NextAction = "move"
	gameInstance.LastMover = entity.ColorBlack
	gameInstance.PlacedWhite = 9
	gameInstance.PlacedBlack = 9
	for _, position := range []int{0, 1, 2, 9, 14} {
		gameInstance.Board[position] = entity.ColorBlack
	}
	for _, position := range []int{4, 10, 13, 19, 21, 23} {
		gameInstance.Board[position] = entity.ColorWhite
	}

	human := &entity.Player{ID: "human", Color: entity.ColorWhite, GameID: gameInstance.ID}
	gameInstance.Players = []*entity.Player{human, entity.NewBotPlayer(gameInstance.ID, entity.ColorBlack)}
	players.players[human.ID] = human
	games.games[gameInstance.ID] = gameInstance

	// When: white makes a move that keeps the bot fully blocked
	updatedGame, err := service.MoveStone(ctx, human.ID, 19, 16)

	// Then: the human's move is persisted and the blocked bot loses
	require.NoError(t, err)
	assert.Equal(t, entity.ColorWhite, updatedGame.Board[16])
	assert.Equal(t, entity.EmptyPosition, updatedGame.Board[19])
	assert.Equal(t, entity.StatusFinished, updatedGame.Status)
	assert.Equal(t, entity.ColorWhite, updatedGame.Winner)
	assert.Equal(t, "reset", updatedGame.NextAction)

	// Then: the finished game was stored and its result archived
	storedGame, err := games.GetGameByID(ctx, gameInstance.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFinished, storedGame.Status)
	assert.Equal(t, entity.ColorWhite, results.saved[gameInstance.ID])
}

func TestGamePlayService_GetOrCreateGame(t *testing.T) {
	t.Run("Returns the player's running game", func(t *testing.T) {
		ctx := context.Background()
		service, players, games, _ := newGamePlayFixture(t)

		gameInstance := entity.NewGame("1000", entity.PrivateType)
		gameInstance.Status = entity.StatusOngoing
		player := &entity.Player{ID: "alice", Color: entity.ColorWhite, GameID: gameInstance.ID}
		gameInstance.Players = []*entity.Player{player}
		players.players[player.ID] = player
		games.games[gameInstance.ID] = gameInstance

		// When: the player asks for a game while one is running
		returnedGame, err := service.GetOrCreateGame(ctx, player, entity.PrivateType)

		// Then: the running game comes back unchanged
		require.NoError(t, err)
		assert.Equal(t, gameInstance.ID, returnedGame.ID)
	})

	t.Run("Cleans up a finished game before opening a new one", func(t *testing.T) {
		ctx := context.Background()
		service, players, games, _ := newGamePlayFixture(t)

		// Given: the player is still attached to a finished game
		finishedGame := entity.NewGame("1000", entity.PrivateType)
		finishedGame.Status = entity.StatusFinished
		finishedGame.Winner = entity.ColorWhite
		player := &entity.Player{ID: "alice", Color: entity.ColorWhite, GameID: finishedGame.ID}
		finishedGame.Players = []*entity.Player{player}
		players.players[player.ID] = player
		games.games[finishedGame.ID] = finishedGame

		// When: the player asks for a new game
		newGame, err := service.GetOrCreateGame(ctx, player, entity.PrivateType)

		// Then: the finished game is gone and a fresh one was created
		require.NoError(t, err)
		require.NotEqual(t, finishedGame.ID, newGame.ID)
		assert.Equal(t, newGame.ID, player.GameID)

		_, err = games.GetGameByID(ctx, finishedGame.ID)
		require.Error(t, err)
	})
}

func TestGamePlayService_JoinGameByID(t *testing.T) {
	t.Run("Joining deals both colors", func(t *testing.T) {
		ctx := context.Background()
		service, players, games, _ := newGamePlayFixture(t)

		// Given: a waiting game with its creator seated, and a second player
		gameInstance := entity.NewGame("1000", entity.PrivateType)
		creator := &entity.Player{ID: "alice", Color: entity.ColorWhite, GameID: gameInstance.ID}
		gameInstance.Players = []*entity.Player{creator}
		players.players[creator.ID] = creator
		games.games[gameInstance.ID] = gameInstance

		joiner := &entity.Player{ID: "bob"}
		players.players[joiner.ID] = joiner

		// When: the second player joins
		joinedGame, err := service.JoinGameByID(ctx, gameInstance.ID, joiner.ID)

		// Then: the game starts with one white and one black seat
		require.NoError(t, err)
		require.Len(t, joinedGame.Players, 2)
		assert.Equal(t, entity.StatusOngoing, joinedGame.Status)
		assert.NotEqual(t, creator.Color, joiner.Color)
		assert.ElementsMatch(t,
			[]string{entity.ColorWhite, entity.ColorBlack},
			[]string{creator.Color, joiner.Color},
		)
		assert.Equal(t, gameInstance.ID, joiner.GameID)
	})

	t.Run("Full game rejects a third player", func(t *testing.T) {
		ctx := context.Background()
		service, players, games, _ := newGamePlayFixture(t)

		gameInstance := entity.NewGame("1000", entity.PrivateType)
		gameInstance.Status = entity.StatusOngoing
		gameInstance.Players = []*entity.Player{
			{ID: "alice", Color: entity.ColorWhite, GameID: gameInstance.ID},
			{ID: "bob", Color: entity.ColorBlack, GameID: gameInstance.ID},
		}
		games.games[gameInstance.ID] = gameInstance

		intruder := &entity.Player{ID: "carol"}
		players.players[intruder.ID] = intruder

		_, err := service.JoinGameByID(ctx, gameInstance.ID, intruder.ID)

		require.Error(t, err)
	})
}
