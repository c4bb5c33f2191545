package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/mill-backend/internal/board"
	"github.com/rocketscienceinc/mill-backend/internal/topology"
)

func newTestEngine(t *testing.T) (*board.Board, *Engine) {
	t.Helper()

	gameBoard := board.New()
	engine := New(gameBoard, topology.New())

	return gameBoard, engine
}

func restoreTestEngine(t *testing.T, stones map[int]board.Color, state State) (*board.Board, *Engine) {
	t.Helper()

	gameBoard, err := board.NewFromStones(stones)
	require.NoError(t, err)

	return gameBoard, Restore(gameBoard, topology.New(), state)
}

func TestEngine_InitialState(t *testing.T) {
	// When: a new game starts
	_, engine := newTestEngine(t)

	// Then: white opens the setting phase, nothing is pending
	require.Equal(t, PhaseSetting, engine.Phase())
	require.Equal(t, ActionSet, engine.NextAction())
	assert.True(t, engine.IsTurn(board.White))
	assert.False(t, engine.IsTurn(board.Black))
	assert.Equal(t, board.NoColor, engine.PendingRemoval())
	assert.Equal(t, 0, engine.PlacedCount(board.White))
	assert.Equal(t, 0, engine.PlacedCount(board.Black))
}

func TestEngine_IsTurn(t *testing.T) {
	t.Run("Exactly one color acts at any time", func(t *testing.T) {
		gameBoard, engine := newTestEngine(t)

		// Given: a few alternating placements
		for i, color := range []board.Color{board.White, board.Black, board.White, board.Black} {
			assert.NotEqual(t, engine.IsTurn(board.White), engine.IsTurn(board.Black))
			require.True(t, engine.IsTurn(color))
			require.NoError(t, gameBoard.Place(i, color))
		}

		assert.NotEqual(t, engine.IsTurn(board.White), engine.IsTurn(board.Black))
	})

	t.Run("Mill owner acts while a removal is pending", func(t *testing.T) {
		// Given: white just closed a mill, black is the victim
		_, engine := restoreTestEngine(t,
			map[int]board.Color{0: board.White, 1: board.White, 2: board.White, 10: board.Black},
			State{Phase: PhaseSetting, LastMover: board.White, PendingRemoval: board.Black, PlacedWhite: 3, PlacedBlack: 1},
		)

		// Then: white performs the removal even though it moved last
		assert.True(t, engine.IsTurn(board.White))
		assert.False(t, engine.IsTurn(board.Black))
	})
}

func TestEngine_Placement(t *testing.T) {
	t.Run("MayPlace ignores the turn", func(t *testing.T) {
		gameBoard, engine := newTestEngine(t)

		// Given: it is white's turn
		require.True(t, engine.IsTurn(board.White))

		// Then: occupancy feedback is the same for both colors
		assert.True(t, engine.MayPlace(0, board.White))
		assert.True(t, engine.MayPlace(0, board.Black))

		// When: the position is taken
		require.NoError(t, gameBoard.Place(0, board.White))

		// Then: neither color may place there
		assert.False(t, engine.MayPlace(0, board.White))
		assert.False(t, engine.MayPlace(0, board.Black))
	})

	t.Run("CanPlace honors the turn", func(t *testing.T) {
		_, engine := newTestEngine(t)

		assert.True(t, engine.CanPlace(0, board.White))
		assert.False(t, engine.CanPlace(0, board.Black))
	})

	t.Run("CanPlace rejects invalid positions", func(t *testing.T) {
		_, engine := newTestEngine(t)

		assert.False(t, engine.CanPlace(-1, board.White))
		assert.False(t, engine.CanPlace(topology.PositionCount, board.White))
	})

	t.Run("No placement outside the setting phase", func(t *testing.T) {
		_, engine := restoreTestEngine(t,
			map[int]board.Color{},
			State{Phase: PhaseMoving, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		assert.False(t, engine.MayPlace(0, board.White))
		assert.False(t, engine.CanPlace(0, board.White))
	})
}

func TestEngine_SettingToMoving(t *testing.T) {
	gameBoard, engine := newTestEngine(t)

	// Given: both colors place all stones on positions 0..17, which never
	// completes a line for either color
	for position := 0; position < 2*StonesPerPlayer; position++ {
		color := board.White
		if position%2 == 1 {
			color = board.Black
		}

		require.Equal(t, PhaseSetting, engine.Phase(), "after %d placements", position)
		require.NoError(t, gameBoard.Place(position, color))
	}

	// Then: the 18th placement flips the phase with no intermediate state
	require.Equal(t, PhaseMoving, engine.Phase())
	require.Equal(t, ActionMove, engine.NextAction())
	assert.Equal(t, StonesPerPlayer, engine.PlacedCount(board.White))
	assert.Equal(t, StonesPerPlayer, engine.PlacedCount(board.Black))
	assert.Equal(t, board.NoColor, engine.PendingRemoval())
}

func TestEngine_MillDetection(t *testing.T) {
	t.Run("Third stone on a line forfeits an opposing stone", func(t *testing.T) {
		gameBoard, engine := newTestEngine(t)

		// Given: white builds the top outer line while black plays elsewhere
		require.NoError(t, gameBoard.Place(0, board.White))
		require.NoError(t, gameBoard.Place(10, board.Black))
		require.NoError(t, gameBoard.Place(1, board.White))
		require.NoError(t, gameBoard.Place(11, board.Black))

		// When: white closes the mill on [0 1 2]
		require.NoError(t, gameBoard.Place(2, board.White))

		// Then: a removal is due, performed by white, hitting only black stones
		require.Equal(t, ActionRemove, engine.NextAction())
		require.Equal(t, PhaseSetting, engine.Phase())
		assert.Equal(t, board.Black, engine.PendingRemoval())
		assert.True(t, engine.IsTurn(board.White))
		assert.True(t, engine.MayRemove(10))
		assert.True(t, engine.MayRemove(11))
		assert.False(t, engine.MayRemove(0), "own stone is safe")
		assert.False(t, engine.MayRemove(5), "empty position")

		// When: white takes a black stone
		require.NoError(t, gameBoard.Remove(10))

		// Then: play continues with black, still setting
		require.Equal(t, ActionSet, engine.NextAction())
		assert.Equal(t, board.NoColor, engine.PendingRemoval())
		assert.True(t, engine.IsTurn(board.Black))
	})

	t.Run("Closing two lines at once forfeits a single stone", func(t *testing.T) {
		gameBoard, engine := newTestEngine(t)

		// Given: white surrounds position 4 on both of its lines
		placements := []struct {
			position int
			color    board.Color
		}{
			{3, board.White}, {18, board.Black},
			{5, board.White}, {20, board.Black},
			{1, board.White}, {22, board.Black},
			{7, board.White}, {9, board.Black},
		}
		for _, placement := range placements {
			require.NoError(t, gameBoard.Place(placement.position, placement.color))
		}

		// When: white places on 4, completing [3 4 5] and [1 4 7] together
		require.NoError(t, gameBoard.Place(4, board.White))

		// Then: exactly one removal is owed
		require.Equal(t, ActionRemove, engine.NextAction())
		require.NoError(t, gameBoard.Remove(18))
		assert.Equal(t, board.NoColor, engine.PendingRemoval())
		assert.False(t, engine.MayRemove(20))
	})

	t.Run("Mill on a move is detected at the destination", func(t *testing.T) {
		// Given: the moving phase with white one step away from a mill
		gameBoard, engine := restoreTestEngine(t,
			map[int]board.Color{
				0: board.White, 1: board.White, 14: board.White, 9: board.White,
				18: board.Black, 20: board.Black, 5: board.Black, 11: board.Black,
			},
			State{Phase: PhaseMoving, LastMover: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		// When: white moves 14 -> 2 and closes [0 1 2]
		require.True(t, engine.MayMove(14, 2))
		require.NoError(t, gameBoard.Move(14, 2))

		// Then: black owes a stone
		assert.Equal(t, board.Black, engine.PendingRemoval())
		assert.Equal(t, ActionRemove, engine.NextAction())
	})
}

func TestEngine_MayMove(t *testing.T) {
	t.Run("Flying below four stones", func(t *testing.T) {
		// Given: white holds four stones, one of them on position 4
		gameBoard, engine := restoreTestEngine(t,
			map[int]board.Color{
				4: board.White, 0: board.White, 2: board.White, 6: board.White,
				18: board.Black, 20: board.Black, 22: board.Black,
			},
			State{Phase: PhaseMoving, LastMover: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		// Then: with four stones only adjacent targets are legal
		assert.True(t, engine.MayMove(4, 7))
		assert.False(t, engine.MayMove(4, 9), "9 is not adjacent to 4")

		// When: white is reduced to three stones
		require.NoError(t, gameBoard.Remove(0))

		// Then: the same stone may fly anywhere empty
		assert.True(t, engine.MayMove(4, 9))
		assert.False(t, engine.MayMove(4, 18), "occupied positions stay off limits")
	})

	t.Run("Only the color to act may move", func(t *testing.T) {
		_, engine := restoreTestEngine(t,
			map[int]board.Color{
				0: board.White, 1: board.White, 4: board.White, 6: board.White,
				18: board.Black, 20: board.Black, 22: board.Black, 9: board.Black,
			},
			State{Phase: PhaseMoving, LastMover: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		// Then: white may move, black may not
		assert.True(t, engine.MayMove(4, 7))
		assert.False(t, engine.MayMove(18, 19))
	})

	t.Run("No move while a removal is pending", func(t *testing.T) {
		_, engine := restoreTestEngine(t,
			map[int]board.Color{
				0: board.White, 1: board.White, 2: board.White, 4: board.White,
				18: board.Black, 20: board.Black, 22: board.Black, 9: board.Black,
			},
			State{Phase: PhaseMoving, LastMover: board.White, PendingRemoval: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		assert.False(t, engine.MayMove(4, 7))
		assert.Equal(t, ActionRemove, engine.NextAction())
	})

	t.Run("Moves from empty or to occupied positions are illegal", func(t *testing.T) {
		_, engine := restoreTestEngine(t,
			map[int]board.Color{
				0: board.White, 1: board.White, 4: board.White, 6: board.White,
				18: board.Black, 20: board.Black, 22: board.Black, 9: board.Black,
			},
			State{Phase: PhaseMoving, LastMover: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		assert.False(t, engine.MayMove(3, 10), "no stone on 3")
		assert.False(t, engine.MayMove(4, 1), "1 is occupied")
		assert.False(t, engine.MayMove(-1, 0))
	})
}

func TestEngine_MaySelect(t *testing.T) {
	_, engine := restoreTestEngine(t,
		map[int]board.Color{
			0: board.White, 1: board.White, 4: board.White, 6: board.White,
			18: board.Black, 20: board.Black, 22: board.Black, 9: board.Black,
		},
		State{Phase: PhaseMoving, LastMover: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
	)

	// Then: white may pick up its own stones only, empty stays unselectable
	assert.True(t, engine.MaySelect(4))
	assert.False(t, engine.MaySelect(18))
	assert.False(t, engine.MaySelect(3))
}

func TestEngine_FinishOnRemoval(t *testing.T) {
	t.Run("Removal below three stones ends the game", func(t *testing.T) {
		// Given: the moving phase, black down to three stones, white owed a removal
		gameBoard, engine := restoreTestEngine(t,
			map[int]board.Color{
				0: board.White, 1: board.White, 2: board.White, 9: board.White,
				5: board.Black, 13: board.Black, 19: board.Black,
			},
			State{Phase: PhaseMoving, LastMover: board.White, PendingRemoval: board.Black, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer},
		)

		// When: white removes a black stone
		require.True(t, engine.MayRemove(5))
		require.NoError(t, gameBoard.Remove(5))

		// Then: black cannot play on and the game is over
		require.Equal(t, PhaseFinished, engine.Phase())
		require.Equal(t, ActionReset, engine.NextAction())
		assert.Equal(t, board.NoColor, engine.PendingRemoval())
	})

	t.Run("Removal during setting never ends the game", func(t *testing.T) {
		// Given: early setting, black has placed only two stones so far
		gameBoard, engine := restoreTestEngine(t,
			map[int]board.Color{
				0: board.White, 1: board.White, 2: board.White,
				10: board.Black, 11: board.Black,
			},
			State{Phase: PhaseSetting, LastMover: board.White, PendingRemoval: board.Black, PlacedWhite: 3, PlacedBlack: 2},
		)

		// When: white removes a black stone, leaving black with one
		require.NoError(t, gameBoard.Remove(10))

		// Then: the game goes on, black still places
		require.Equal(t, PhaseSetting, engine.Phase())
		require.Equal(t, ActionSet, engine.NextAction())
		assert.True(t, engine.IsTurn(board.Black))
	})
}

func TestEngine_PhaseTransitionWithPendingRemoval(t *testing.T) {
	// Given: black's last stone is about to close a mill and finish setting
	gameBoard, engine := restoreTestEngine(t,
		map[int]board.Color{
			0: board.Black, 1: board.Black,
			9: board.White, 4: board.White, 6: board.White, 8: board.White,
			12: board.White, 13: board.White, 16: board.White, 20: board.White, 23: board.White,
		},
		State{Phase: PhaseSetting, LastMover: board.White, PlacedWhite: StonesPerPlayer, PlacedBlack: StonesPerPlayer - 1},
	)

	// When: black places its ninth stone on 2, completing [0 1 2]
	require.True(t, engine.CanPlace(2, board.Black))
	require.NoError(t, gameBoard.Place(2, board.Black))

	// Then: the phase advances anyway, and the removal is still owed
	require.Equal(t, PhaseMoving, engine.Phase())
	require.Equal(t, ActionRemove, engine.NextAction())
	assert.Equal(t, board.White, engine.PendingRemoval())
	assert.True(t, engine.IsTurn(board.Black))
}

func TestEngine_Reset(t *testing.T) {
	gameBoard, engine := newTestEngine(t)

	// Given: a game in progress with a pending removal
	require.NoError(t, gameBoard.Place(0, board.White))
	require.NoError(t, gameBoard.Place(10, board.Black))
	require.NoError(t, gameBoard.Place(1, board.White))
	require.NoError(t, gameBoard.Place(11, board.Black))
	require.NoError(t, gameBoard.Place(2, board.White))
	require.Equal(t, ActionRemove, engine.NextAction())

	// When: the board resets
	gameBoard.Reset()

	// Then: every query reproduces the initial state
	require.Equal(t, PhaseSetting, engine.Phase())
	require.Equal(t, ActionSet, engine.NextAction())
	assert.True(t, engine.IsTurn(board.White))
	assert.Equal(t, board.NoColor, engine.PendingRemoval())
	assert.Equal(t, 0, engine.PlacedCount(board.White))
	assert.Equal(t, 0, engine.PlacedCount(board.Black))
}

func TestEngine_StateRoundTrip(t *testing.T) {
	// Given: a mid-game engine
	gameBoard, engine := newTestEngine(t)
	require.NoError(t, gameBoard.Place(0, board.White))
	require.NoError(t, gameBoard.Place(10, board.Black))

	// When: the state is persisted and restored onto the same stones
	state := engine.State()
	restoredBoard, err := board.NewFromStones(gameBoard.Stones())
	require.NoError(t, err)
	restored := Restore(restoredBoard, topology.New(), state)

	// Then: the restored engine answers like the persisted one
	assert.Equal(t, engine.Phase(), restored.Phase())
	assert.Equal(t, engine.NextAction(), restored.NextAction())
	assert.Equal(t, engine.IsTurn(board.White), restored.IsTurn(board.White))
	assert.Equal(t, engine.PlacedCount(board.White), restored.PlacedCount(board.White))
	assert.Equal(t, engine.PlacedCount(board.Black), restored.PlacedCount(board.Black))
}
