package mill

import (
	"fmt"

	"github.com/rocketscienceinc/mill-backend/internal/apperror"
	"github.com/rocketscienceinc/mill-backend/internal/board"
	"github.com/rocketscienceinc/mill-backend/internal/entity"
	"github.com/rocketscienceinc/mill-backend/internal/rules"
	"github.com/rocketscienceinc/mill-backend/internal/topology"
)

// Controller applies player actions to game snapshots. For every action it
// restores a live board and rules engine from the snapshot, consults the
// engine's legality queries, performs the board mutation (which drives the
// engine through board events) and writes the result back into the snapshot.
type Controller struct {
	topo *topology.Topology
}

func NewController() *Controller {
	return &Controller{topo: topology.New()}
}

// Restore rebuilds the live board and engine for a snapshot. The engine is
// already subscribed to the returned board.
func (that *Controller) Restore(gameInstance *entity.Game) (*board.Board, *rules.Engine, error) {
	stones := make(map[int]board.Color)
	for position, occupant := range gameInstance.Board {
		if occupant != entity.EmptyPosition {
			stones[position] = board.Color(occupant)
		}
	}

	liveBoard, err := board.NewFromStones(stones)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore board: %w", err)
	}

	engine := rules.Restore(liveBoard, that.topo, rules.State{
		Phase:          rules.Phase(gameInstance.Phase),
		LastMover:      board.Color(gameInstance.LastMover),
		PendingRemoval: board.Color(gameInstance.PendingRemoval),
		PlacedWhite:    gameInstance.PlacedWhite,
		PlacedBlack:    gameInstance.PlacedBlack,
	})

	return liveBoard, engine, nil
}

// Place sets a stone of the player's color during the setting phase.
func (that *Controller) Place(gameInstance *entity.Game, playerColor string, position int) error {
	liveBoard, engine, err := that.Restore(gameInstance)
	if err != nil {
		return err
	}

	color := board.Color(playerColor)

	if engine.Phase() == rules.PhaseFinished {
		return apperror.ErrGameFinished
	}

	if !engine.IsTurn(color) {
		return apperror.ErrNotYourTurn
	}

	if engine.NextAction() != rules.ActionSet || !engine.CanPlace(position, color) {
		return fmt.Errorf("%w: position %d", apperror.ErrIllegalPlacement, position)
	}

	if err = liveBoard.Place(position, color); err != nil {
		return fmt.Errorf("failed to place stone: %w", err)
	}

	that.sync(gameInstance, liveBoard, engine)

	return nil
}

// Move relocates one of the player's stones during the moving phase.
func (that *Controller) Move(gameInstance *entity.Game, playerColor string, from, to int) error {
	liveBoard, engine, err := that.Restore(gameInstance)
	if err != nil {
		return err
	}

	color := board.Color(playerColor)

	if engine.Phase() == rules.PhaseFinished {
		return apperror.ErrGameFinished
	}

	if !engine.IsTurn(color) {
		return apperror.ErrNotYourTurn
	}

	mover, err := liveBoard.ColorAt(from)
	if err != nil {
		return err
	}

	if mover != color || !engine.MayMove(from, to) {
		return fmt.Errorf("%w: %d -> %d", apperror.ErrIllegalMove, from, to)
	}

	if err = liveBoard.Move(from, to); err != nil {
		return fmt.Errorf("failed to move stone: %w", err)
	}

	that.sync(gameInstance, liveBoard, engine)

	return nil
}

// Remove takes an opposing stone off the board after the player closed a
// mill.
func (that *Controller) Remove(gameInstance *entity.Game, playerColor string, position int) error {
	liveBoard, engine, err := that.Restore(gameInstance)
	if err != nil {
		return err
	}

	color := board.Color(playerColor)

	if engine.Phase() == rules.PhaseFinished {
		return apperror.ErrGameFinished
	}

	if engine.NextAction() != rules.ActionRemove {
		return apperror.ErrIllegalRemoval
	}

	if !engine.IsTurn(color) {
		return apperror.ErrNotYourTurn
	}

	if !engine.MayRemove(position) {
		return fmt.Errorf("%w: position %d", apperror.ErrIllegalRemoval, position)
	}

	if err = liveBoard.Remove(position); err != nil {
		return fmt.Errorf("failed to remove stone: %w", err)
	}

	that.sync(gameInstance, liveBoard, engine)

	return nil
}

// Reset clears the board and starts the game over with the same seats.
func (that *Controller) Reset(gameInstance *entity.Game) error {
	liveBoard, engine, err := that.Restore(gameInstance)
	if err != nil {
		return err
	}

	liveBoard.Reset()

	gameInstance.Winner = ""
	gameInstance.Status = entity.StatusOngoing
	that.sync(gameInstance, liveBoard, engine)

	return nil
}

// sync writes the live state back into the snapshot.
func (that *Controller) sync(gameInstance *entity.Game, liveBoard *board.Board, engine *rules.Engine) {
	var cells [topology.PositionCount]string
	for position, color := range liveBoard.Stones() {
		cells[position] = string(color)
	}
	gameInstance.Board = cells

	state := engine.State()
	gameInstance.Phase = string(state.Phase)
	gameInstance.LastMover = string(state.LastMover)
	gameInstance.PendingRemoval = string(state.PendingRemoval)
	gameInstance.PlacedWhite = state.PlacedWhite
	gameInstance.PlacedBlack = state.PlacedBlack
	gameInstance.NextAction = string(engine.NextAction())

	if engine.Phase() == rules.PhaseFinished {
		gameInstance.Status = entity.StatusFinished
		gameInstance.Turn = ""
		gameInstance.Winner = that.winner(liveBoard)
		return
	}

	if engine.IsTurn(board.White) {
		gameInstance.Turn = entity.ColorWhite
	} else {
		gameInstance.Turn = entity.ColorBlack
	}
}

// winner is the color that still holds a playable set of stones.
func (that *Controller) winner(liveBoard *board.Board) string {
	if liveBoard.CountStones(board.White) > liveBoard.CountStones(board.Black) {
		return entity.ColorWhite
	}
	return entity.ColorBlack
}
