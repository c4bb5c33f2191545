package rules

import (
	"github.com/rocketscienceinc/mill-backend/internal/board"
	"github.com/rocketscienceinc/mill-backend/internal/topology"
)

// Phase of the game. Phases only advance; an explicit reset starts over.
type Phase string

const (
	PhaseSetting  Phase = "setting"
	PhaseMoving   Phase = "moving"
	PhaseFinished Phase = "finished"
)

// Action is what the acting player has to do next.
type Action string

const (
	ActionSet    Action = "set"
	ActionMove   Action = "move"
	ActionRemove Action = "remove"
	ActionReset  Action = "reset"
)

const (
	// StonesPerPlayer is the number of stones each color places during the
	// setting phase.
	StonesPerPlayer = 9

	// flyingThreshold is the live stone count at or below which a color may
	// move to any empty position instead of only adjacent ones.
	flyingThreshold = 3

	// loseThreshold is the live stone count at or below which a color has
	// lost during the moving phase.
	loseThreshold = 2
)

// State is the serializable part of the engine, used to persist a game and
// restore it later.
type State struct {
	Phase          Phase       `json:"phase"`
	LastMover      board.Color `json:"last_mover,omitempty"`
	PendingRemoval board.Color `json:"pending_removal,omitempty"`
	PlacedWhite    int         `json:"placed_white"`
	PlacedBlack    int         `json:"placed_black"`
}

// Engine is the rules state machine. It subscribes to a board and keeps its
// own state consistent with the board's by the time any mutation returns.
// All queries are pure; the engine never mutates the board.
type Engine struct {
	board *board.Board
	topo  *topology.Topology

	phase          Phase
	lastMover      board.Color
	pendingRemoval board.Color
	placed         [2]int
}

// New creates an engine in the setting phase and subscribes it to the board.
func New(gameBoard *board.Board, topo *topology.Topology) *Engine {
	engine := &Engine{
		board: gameBoard,
		topo:  topo,
		phase: PhaseSetting,
	}

	gameBoard.Subscribe(engine)

	return engine
}

// Restore creates an engine with the given persisted state and subscribes it
// to the board. The board must already hold the matching stones.
func Restore(gameBoard *board.Board, topo *topology.Topology, state State) *Engine {
	engine := &Engine{
		board:          gameBoard,
		topo:           topo,
		phase:          state.Phase,
		lastMover:      state.LastMover,
		pendingRemoval: state.PendingRemoval,
	}

	if engine.phase == "" {
		engine.phase = PhaseSetting
	}

	engine.placed[colorIndex(board.White)] = state.PlacedWhite
	engine.placed[colorIndex(board.Black)] = state.PlacedBlack

	gameBoard.Subscribe(engine)

	return engine
}

// State returns the persistable engine state.
func (that *Engine) State() State {
	return State{
		Phase:          that.phase,
		LastMover:      that.lastMover,
		PendingRemoval: that.pendingRemoval,
		PlacedWhite:    that.placed[colorIndex(board.White)],
		PlacedBlack:    that.placed[colorIndex(board.Black)],
	}
}

// Phase returns the current game phase.
func (that *Engine) Phase() Phase {
	return that.phase
}

// PendingRemoval returns the color whose stone must be removed before play
// continues, or NoColor if no mill was just closed.
func (that *Engine) PendingRemoval() board.Color {
	return that.pendingRemoval
}

// PlacedCount returns how many stones of the color were placed during the
// setting phase. It never decreases.
func (that *Engine) PlacedCount(color board.Color) int {
	return that.placed[colorIndex(color)]
}

// NextAction derives what has to happen next. A pending removal takes
// priority over the phase.
func (that *Engine) NextAction() Action {
	switch {
	case that.pendingRemoval != board.NoColor:
		return ActionRemove
	case that.phase == PhaseSetting:
		return ActionSet
	case that.phase == PhaseMoving:
		return ActionMove
	default:
		return ActionReset
	}
}

// IsTurn reports whether the given color is the one to act. While a removal
// is pending the mill owner acts, not the victim. White opens the game.
func (that *Engine) IsTurn(color board.Color) bool {
	if that.pendingRemoval != board.NoColor {
		return color != that.pendingRemoval
	}

	if that.lastMover == board.NoColor {
		return color == board.White
	}

	return color != that.lastMover
}

// CanPlace reports whether the color may place a stone on the position right
// now: setting phase, its turn, position empty.
func (that *Engine) CanPlace(position int, color board.Color) bool {
	occupant, err := that.board.ColorAt(position)
	if err != nil {
		return false
	}

	return that.phase == PhaseSetting && that.IsTurn(color) && occupant == board.NoColor
}

// MayPlace is CanPlace without the turn check, for pure occupancy feedback.
func (that *Engine) MayPlace(position int, _ board.Color) bool {
	occupant, err := that.board.ColorAt(position)
	if err != nil {
		return false
	}

	return that.phase == PhaseSetting && occupant == board.NoColor
}

// MaySelect reports whether the stone on the position belongs to the color
// to act, i.e. may be picked up for a move.
func (that *Engine) MaySelect(position int) bool {
	occupant, err := that.board.ColorAt(position)
	if err != nil {
		return false
	}

	return occupant != board.NoColor && that.IsTurn(occupant)
}

// MayMove reports whether the stone on from may be moved to to. A color with
// more than three live stones may only move along adjacency edges; with
// three or fewer it flies anywhere. The count is taken live on every call.
func (that *Engine) MayMove(from, to int) bool {
	if that.pendingRemoval != board.NoColor {
		return false
	}

	mover, err := that.board.ColorAt(from)
	if err != nil || mover == board.NoColor || !that.IsTurn(mover) {
		return false
	}

	target, err := that.board.ColorAt(to)
	if err != nil || target != board.NoColor {
		return false
	}

	if that.board.CountStones(mover) <= flyingThreshold {
		return true
	}

	return that.topo.Adjacent(from, to)
}

// MayRemove reports whether the stone on the position may be taken off the
// board: a removal is pending and the stone has the forfeit color.
func (that *Engine) MayRemove(position int) bool {
	if that.pendingRemoval == board.NoColor {
		return false
	}

	occupant, err := that.board.ColorAt(position)
	if err != nil {
		return false
	}

	return occupant == that.pendingRemoval
}

// HandleBoardEvent keeps the engine in sync with the board. It is invoked
// synchronously by the board before the mutation call returns.
func (that *Engine) HandleBoardEvent(event board.Event) {
	switch event.Kind {
	case board.EventStoneSet:
		that.placed[colorIndex(event.Color)]++
		that.lastMover = event.Color
		that.detectMill(event.Position, event.Color)

		bothPlaced := that.placed[colorIndex(board.White)] >= StonesPerPlayer &&
			that.placed[colorIndex(board.Black)] >= StonesPerPlayer
		if that.phase == PhaseSetting && bothPlaced {
			that.phase = PhaseMoving
		}
	case board.EventStoneRemoved:
		that.pendingRemoval = board.NoColor

		// A color reduced to two stones has lost, but only once everyone has
		// placed: removals during the setting phase never end the game.
		shortOfStones := that.board.CountStones(board.White) <= loseThreshold ||
			that.board.CountStones(board.Black) <= loseThreshold
		if that.phase == PhaseMoving && shortOfStones {
			that.phase = PhaseFinished
		}
	case board.EventStoneMoved:
		that.lastMover = event.Color
		that.detectMill(event.To, event.Color)
	case board.EventReset:
		that.phase = PhaseSetting
		that.lastMover = board.NoColor
		that.pendingRemoval = board.NoColor
		that.placed = [2]int{}
	}
}

// detectMill checks every line through the destination. Closing any line
// forfeits one opposing stone; closing two at once still forfeits only one.
func (that *Engine) detectMill(position int, mover board.Color) {
	for _, line := range that.topo.LinesThrough(position) {
		if that.lineOwnedBy(line, mover) {
			that.pendingRemoval = mover.Opponent()
			return
		}
	}
}

func (that *Engine) lineOwnedBy(line topology.Line, color board.Color) bool {
	for _, position := range line {
		occupant, err := that.board.ColorAt(position)
		if err != nil || occupant != color {
			return false
		}
	}

	return true
}

func colorIndex(color board.Color) int {
	if color == board.White {
		return 0
	}
	return 1
}
