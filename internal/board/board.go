package board

import (
	"fmt"

	"github.com/rocketscienceinc/mill-backend/internal/apperror"
	"github.com/rocketscienceinc/mill-backend/internal/topology"
)

// Color of a stone. NoColor marks an unoccupied position.
type Color string

const (
	White   Color = "white"
	Black   Color = "black"
	NoColor Color = ""
)

// Opponent returns the other color.
func (that Color) Opponent() Color {
	if that == White {
		return Black
	}
	return White
}

// EventKind identifies a board mutation.
type EventKind string

const (
	EventStoneSet     EventKind = "stone_set"
	EventStoneRemoved EventKind = "stone_removed"
	EventStoneMoved   EventKind = "stone_moved"
	EventReset        EventKind = "reset"
)

// Event describes a single completed mutation. Position is the placed or
// removed stone; moves carry From and To instead.
type Event struct {
	Kind     EventKind
	Color    Color
	Position int
	From     int
	To       int
}

// Listener receives board events. Dispatch is synchronous: a listener must
// not mutate the board while being notified.
type Listener interface {
	HandleBoardEvent(event Event)
}

// Board is the authoritative position→color store. Every mutation validates
// its arguments and, on success, notifies all subscribed listeners exactly
// once before returning, so listeners are consistent with the board by the
// time the mutation call returns.
type Board struct {
	stones    map[int]Color
	listeners []Listener
}

func New() *Board {
	return &Board{
		stones: make(map[int]Color),
	}
}

// NewFromStones builds a board holding the given stones without emitting
// events. Used to restore a persisted game.
func NewFromStones(stones map[int]Color) (*Board, error) {
	restored := New()

	for position, color := range stones {
		if position < 0 || position >= topology.PositionCount {
			return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
		}
		if color != White && color != Black {
			return nil, fmt.Errorf("invalid stone color %q on position %d", color, position)
		}
		restored.stones[position] = color
	}

	return restored, nil
}

// Subscribe registers a listener for all subsequent events.
func (that *Board) Subscribe(listener Listener) {
	that.listeners = append(that.listeners, listener)
}

// Unsubscribe removes a previously subscribed listener.
func (that *Board) Unsubscribe(listener Listener) {
	for i, subscribed := range that.listeners {
		if subscribed == listener {
			that.listeners = append(that.listeners[:i], that.listeners[i+1:]...)
			return
		}
	}
}

// ColorAt returns the color on position, or NoColor if it is unoccupied.
func (that *Board) ColorAt(position int) (Color, error) {
	if position < 0 || position >= topology.PositionCount {
		return NoColor, fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
	}

	return that.stones[position], nil
}

// Stones returns a copy of all stones on the board.
func (that *Board) Stones() map[int]Color {
	stones := make(map[int]Color, len(that.stones))
	for position, color := range that.stones {
		stones[position] = color
	}

	return stones
}

// CountStones returns the number of live stones of the given color.
func (that *Board) CountStones(color Color) int {
	count := 0
	for _, stoneColor := range that.stones {
		if stoneColor == color {
			count++
		}
	}

	return count
}

// Place puts a stone of the given color on an empty position.
func (that *Board) Place(position int, color Color) error {
	occupant, err := that.ColorAt(position)
	if err != nil {
		return err
	}

	if occupant != NoColor {
		return fmt.Errorf("%w: %d", apperror.ErrPositionOccupied, position)
	}

	that.stones[position] = color
	that.emit(Event{Kind: EventStoneSet, Color: color, Position: position})

	return nil
}

// Remove takes the stone off the given position.
func (that *Board) Remove(position int) error {
	occupant, err := that.ColorAt(position)
	if err != nil {
		return err
	}

	if occupant == NoColor {
		return fmt.Errorf("%w: %d", apperror.ErrPositionEmpty, position)
	}

	delete(that.stones, position)
	that.emit(Event{Kind: EventStoneRemoved, Color: occupant, Position: position})

	return nil
}

// Move relocates a stone from one position to another.
func (that *Board) Move(from, to int) error {
	occupant, err := that.ColorAt(from)
	if err != nil {
		return err
	}

	if occupant == NoColor {
		return fmt.Errorf("%w: %d", apperror.ErrPositionEmpty, from)
	}

	target, err := that.ColorAt(to)
	if err != nil {
		return err
	}

	if target != NoColor {
		return fmt.Errorf("%w: %d", apperror.ErrPositionOccupied, to)
	}

	delete(that.stones, from)
	that.stones[to] = occupant
	that.emit(Event{Kind: EventStoneMoved, Color: occupant, From: from, To: to})

	return nil
}

// Reset clears all stones.
func (that *Board) Reset() {
	that.stones = make(map[int]Color)
	that.emit(Event{Kind: EventReset})
}

func (that *Board) emit(event Event) {
	for _, listener := range that.listeners {
		listener.HandleBoardEvent(event)
	}
}
