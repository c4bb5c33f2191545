package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/mill-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, bufrw)

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, gameErr := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if gameErr != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", gameErr)
			return that.sendErrorResponse(bufrw, msg.Action, "failed to get the game")
		}
		payloadResp.Game = game
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player")

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	if payloadReq.Game == nil {
		log.Error("Game is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Game is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	var game *entity.Game
	var err error

	if payloadReq.Game.IsPublic() {
		game, err = that.gameUseCase.CreateOrJoinToPublicGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type)
	} else {
		game, err = that.gameUseCase.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type)
	}

	if err != nil {
		log.Error("failed to create or join game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new game")
	}

	that.broadcastGame(msg.Action, game)

	log.Info("game ready", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleJoinGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	if payloadReq.Game == nil {
		log.Error("Game is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Game is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	game, err := that.gameUseCase.JoinGameByID(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player joined game", "gameID", game.ID)

	return nil
}

func (that *Server) handlePlaceStone(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	return that.handleGameAction(ctx, msg, bufrw, func(payloadReq *Payload) (*entity.Game, error) {
		if payloadReq.Position == nil {
			return nil, errMissingPosition
		}

		return that.gameUseCase.PlaceStone(ctx, payloadReq.Player.ID, *payloadReq.Position)
	})
}

func (that *Server) handleMoveStone(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	return that.handleGameAction(ctx, msg, bufrw, func(payloadReq *Payload) (*entity.Game, error) {
		if payloadReq.From == nil || payloadReq.To == nil {
			return nil, errMissingPosition
		}

		return that.gameUseCase.MoveStone(ctx, payloadReq.Player.ID, *payloadReq.From, *payloadReq.To)
	})
}

func (that *Server) handleRemoveStone(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	return that.handleGameAction(ctx, msg, bufrw, func(payloadReq *Payload) (*entity.Game, error) {
		if payloadReq.Position == nil {
			return nil, errMissingPosition
		}

		return that.gameUseCase.RemoveStone(ctx, payloadReq.Player.ID, *payloadReq.Position)
	})
}

func (that *Server) handleResetGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	return that.handleGameAction(ctx, msg, bufrw, func(payloadReq *Payload) (*entity.Game, error) {
		return that.gameUseCase.ResetGame(ctx, payloadReq.Player.ID)
	})
}

// handleGameAction runs one game action and broadcasts the updated snapshot
// to every connected player of the game. Illegal actions are reported back
// to the requesting connection only.
func (that *Server) handleGameAction(_ context.Context, msg *Message, bufrw *bufio.ReadWriter, action func(payloadReq *Payload) (*entity.Game, error)) error {
	log := that.logger.With("method", "handleGameAction", "action", msg.Action)

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	that.registerConnection(payloadReq.Player.ID, bufrw)

	game, err := action(&payloadReq)
	if err != nil {
		log.Info("rejected game action", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, err.Error())
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

func (that *Server) registerConnection(playerID string, bufrw *bufio.ReadWriter) {
	that.connectionsMutex.Lock()
	that.connections[playerID] = bufrw
	that.connectionsMutex.Unlock()
}

func (that *Server) broadcastGame(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcastGame", "gameID", game.ID)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		that.connectionsMutex.RLock()
		conn, ok := that.connections[player.ID]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   game,
		}

		if err := that.sendMessage(conn, action, payloadResp); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}
}
