package apperror

import "errors"

var (
	ErrInvalidPosition  = errors.New("position is not a board intersection")
	ErrPositionOccupied = errors.New("position is already occupied")
	ErrPositionEmpty    = errors.New("no stone on position")

	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrIllegalPlacement  = errors.New("placement is not allowed")
	ErrIllegalMove       = errors.New("move is not allowed")
	ErrIllegalRemoval    = errors.New("removal is not allowed")
	ErrNoActiveGames     = errors.New("no active games")
	ErrGameAlreadyExists = errors.New("game already exists")
)
