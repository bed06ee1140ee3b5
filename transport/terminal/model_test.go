package terminal

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour/internal/entity"
	"github.com/rocketscienceinc/connectfour/internal/service"
	"github.com/rocketscienceinc/connectfour/internal/usecase"
)

var testPhysics = Physics{
	FrameDelay:      time.Millisecond,
	InitialVelocity: 0.16,
	Gravity:         0.006,
}

type fakeScoreboard struct {
	score entity.Score
}

func (that *fakeScoreboard) Totals(_ context.Context) (entity.Score, error) {
	return that.score, nil
}

func newTestModel(t *testing.T, scoreboard scoreboard) (Model, *usecase.TurnOrchestrator, *Renderer) {
	t.Helper()

	return newTestModelWith(t, scoreboard, true)
}

func newTestModelWith(t *testing.T, scoreboard scoreboard, humanFirst bool) (Model, *usecase.TurnOrchestrator, *Renderer) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	board, err := entity.NewBoard(entity.DefaultWidth, entity.DefaultHeight)
	require.NoError(t, err)

	renderer := NewRenderer()
	opponent := service.NewRandomOpponent(rand.New(rand.NewSource(7))) //nolint: gosec // it's ok
	orchestrator := usecase.NewTurnOrchestrator(logger, board, opponent, renderer, nil)
	require.NoError(t, orchestrator.StartNewGame(context.Background(), humanFirst))

	return NewModel(context.Background(), logger, orchestrator, renderer, scoreboard, testPhysics, humanFirst), orchestrator, renderer
}

func update(t *testing.T, model Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	next, cmd := model.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)

	return updated, cmd
}

func receive(t *testing.T, renderer *Renderer) entity.AnimationRequest {
	t.Helper()

	select {
	case req := <-renderer.requests:
		return req
	case <-time.After(time.Second):
		require.FailNow(t, "no animation requested")
	}

	return entity.AnimationRequest{}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// land - plays every frame of the animation started by req.
func land(t *testing.T, model Model, req entity.AnimationRequest) Model {
	t.Helper()

	model, _ = update(t, model, animationStartedMsg(req))
	require.NotNil(t, model.falling)

	for i := 0; i < 1000; i++ {
		if model.falling == nil {
			return model
		}

		model, _ = update(t, model, frameMsg{handle: req.Handle})
	}

	require.FailNow(t, "animation never finished")

	return model
}

func TestModel_HumanDrop(t *testing.T) {
	t.Parallel()

	t.Run("digit key drops into that column", func(t *testing.T) {
		t.Parallel()

		// Given
		model, orchestrator, renderer := newTestModel(t, nil)

		// When
		model, _ = update(t, model, runes("4"))

		// Then
		req := receive(t, renderer)
		assert.Equal(t, 3, req.Column)
		assert.Equal(t, 0, req.ToRow)
		assert.Equal(t, entity.Player1, req.Mark)
		assert.Equal(t, entity.AnimatingPlayer1, orchestrator.State())
		assert.Equal(t, 3, model.cursor)
	})

	t.Run("cursor moves and drops with enter", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, renderer := newTestModel(t, nil)
		start := model.cursor

		// When
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyLeft})
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyLeft})
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRight})
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

		// Then
		req := receive(t, renderer)
		assert.Equal(t, start-1, req.Column)
		assert.Equal(t, start-1, model.cursor)
	})

	t.Run("cursor stays on the board", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, _ := newTestModel(t, nil)

		// When
		for i := 0; i < entity.DefaultWidth+2; i++ {
			model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRight})
		}

		// Then
		assert.Equal(t, entity.DefaultWidth-1, model.cursor)
	})

	t.Run("digit past the last column is ignored", func(t *testing.T) {
		t.Parallel()

		// Given
		model, orchestrator, _ := newTestModel(t, nil)

		// When
		_, _ = update(t, model, runes("9"))

		// Then
		assert.Equal(t, entity.AwaitingPlayer1Input, orchestrator.State())
	})
}

func TestModel_Animation(t *testing.T) {
	t.Parallel()

	t.Run("landing hands the turn to the opponent", func(t *testing.T) {
		t.Parallel()

		// Given
		model, orchestrator, renderer := newTestModel(t, nil)
		model, _ = update(t, model, runes("1"))
		req := receive(t, renderer)

		// When
		model = land(t, model, req)

		// Then
		assert.Nil(t, model.falling)
		assert.Equal(t, entity.AnimatingPlayer2, orchestrator.State())

		next := receive(t, renderer)
		assert.Equal(t, entity.Player2, next.Mark)
		assert.Greater(t, next.Handle, req.Handle)
	})

	t.Run("input while animating is ignored", func(t *testing.T) {
		t.Parallel()

		// Given
		model, orchestrator, renderer := newTestModel(t, nil)
		model, _ = update(t, model, runes("1"))
		req := receive(t, renderer)
		model, _ = update(t, model, animationStartedMsg(req))

		// When
		_, _ = update(t, model, runes("2"))

		// Then
		assert.Equal(t, entity.AnimatingPlayer1, orchestrator.State())
		assert.Empty(t, renderer.requests)
	})

	t.Run("frame for another handle is ignored", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, renderer := newTestModel(t, nil)
		model, _ = update(t, model, runes("1"))
		req := receive(t, renderer)
		model, _ = update(t, model, animationStartedMsg(req))

		// When
		next, cmd := update(t, model, frameMsg{handle: req.Handle + 100})

		// Then
		assert.Nil(t, cmd)
		assert.Equal(t, model.falling, next.falling)
	})

	t.Run("target cell hidden until the piece lands", func(t *testing.T) {
		t.Parallel()

		// Given
		model, orchestrator, renderer := newTestModel(t, nil)
		model, _ = update(t, model, runes("1"))
		req := receive(t, renderer)

		// When
		model, _ = update(t, model, animationStartedMsg(req))

		// Then
		snapshot := orchestrator.Snapshot()
		assert.Equal(t, emptyStyle.Render(emptyGlyph), model.renderCell(snapshot, req.ToRow, req.Column))
		assert.Equal(t, player1Style.Render(pieceGlyph), model.renderCell(snapshot, req.FromRow, req.Column))
	})

	t.Run("hover indicator only while input is accepted", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, renderer := newTestModel(t, nil)
		height := entity.DefaultHeight
		snapshot := model.game.Snapshot()

		// Then
		assert.Equal(t, player1Style.Render(pieceGlyph), model.renderCell(snapshot, height, model.cursor))

		// When
		model, _ = update(t, model, runes("1"))
		receive(t, renderer)

		// Then
		assert.Equal(t, cellStyle.Render(" "), model.renderCell(model.game.Snapshot(), height, model.cursor))
	})
}

func TestModel_NewGameAndQuit(t *testing.T) {
	t.Parallel()

	t.Run("new game clears the board", func(t *testing.T) {
		t.Parallel()

		// Given
		model, orchestrator, renderer := newTestModel(t, nil)
		model, _ = update(t, model, runes("1"))
		req := receive(t, renderer)
		model, _ = update(t, model, animationStartedMsg(req))

		// When
		model, _ = update(t, model, runes("n"))

		// Then
		assert.Nil(t, model.falling)
		assert.Equal(t, entity.AwaitingPlayer1Input, orchestrator.State())
		assert.Len(t, orchestrator.LegalColumns(), entity.DefaultWidth)
		assert.NotContains(t, orchestrator.Snapshot().String(), "X")
	})

	t.Run("repeated new games with the opponent first never block", func(t *testing.T) {
		t.Parallel()

		// Given: the opponent moves first and nothing drains the renderer
		model, orchestrator, renderer := newTestModelWith(t, nil, false)
		presses := 10
		done := make(chan Model, 1)

		// When
		go func() {
			var current tea.Model = model
			for i := 0; i < presses; i++ {
				current, _ = current.Update(runes("n"))
			}
			done <- current.(Model)
		}()

		// Then
		select {
		case model = <-done:
		case <-time.After(time.Second):
			require.FailNow(t, "new game blocked on the renderer")
		}

		require.Len(t, renderer.requests, 1)

		inFlight, ok := orchestrator.InFlight()
		require.True(t, ok)
		assert.Equal(t, entity.AnimatingPlayer2, orchestrator.State())

		// Then: only the current game's animation is left and it completes the turn
		req := receive(t, renderer)
		assert.Equal(t, inFlight, req)

		land(t, model, req)
		assert.Equal(t, entity.AwaitingPlayer1Input, orchestrator.State())
		assert.True(t, orchestrator.AcceptsInput())
	})

	t.Run("quit key quits", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, _ := newTestModel(t, nil)

		// When
		_, cmd := update(t, model, runes("q"))

		// Then
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	t.Run("shows whose turn it is", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, _ := newTestModel(t, nil)

		// When
		view := model.View()

		// Then
		assert.Contains(t, view, "Connect Four")
		assert.Contains(t, view, "Your turn")
		assert.Contains(t, view, "new game")
	})

	t.Run("shows the score once loaded", func(t *testing.T) {
		t.Parallel()

		// Given
		scoreboard := &fakeScoreboard{score: entity.Score{Player1Wins: 2, Player2Wins: 1, Draws: 3}}
		model, _, _ := newTestModel(t, scoreboard)

		// When
		msg := model.loadScore()()
		model, _ = update(t, model, msg)

		// Then
		assert.Contains(t, model.View(), "You 2 · Opponent 1 · Draws 3")
	})

	t.Run("no score without a scoreboard", func(t *testing.T) {
		t.Parallel()

		// Given
		model, _, _ := newTestModel(t, nil)

		// Then
		assert.Nil(t, model.loadScore())
		assert.NotContains(t, model.View(), "Draws")
	})
}

func TestFinishedMessage(t *testing.T) {
	t.Parallel()

	assert.Contains(t, finishedMessage(entity.Player1Win), "You Win!")
	assert.Contains(t, finishedMessage(entity.Player2Win), "You Lose!")
	assert.Contains(t, finishedMessage(entity.Draw), "Draw")
	assert.Empty(t, finishedMessage(entity.InProgress))
}

func TestFallingPiece(t *testing.T) {
	t.Parallel()

	t.Run("lands on the target row", func(t *testing.T) {
		t.Parallel()

		// Given
		req := entity.AnimationRequest{Handle: 1, Column: 2, FromRow: 6, ToRow: 0, Mark: entity.Player1}
		piece := newFallingPiece(req, testPhysics)
		previous := piece.row()
		frames := 0

		// When
		for !piece.done() && frames < 1000 {
			piece = piece.next()
			frames++

			// Then
			assert.LessOrEqual(t, piece.row(), previous)
			previous = piece.row()
		}

		// Then
		assert.True(t, piece.done())
		assert.Equal(t, 0, piece.row())
		assert.Greater(t, frames, 1)
	})

	t.Run("short drop finishes quickly", func(t *testing.T) {
		t.Parallel()

		// Given
		req := entity.AnimationRequest{Handle: 1, Column: 0, FromRow: 6, ToRow: 5, Mark: entity.Player2}
		piece := newFallingPiece(req, testPhysics)

		// When
		frames := 0
		for !piece.done() {
			piece = piece.next()
			frames++
		}

		// Then
		assert.Equal(t, 5, piece.row())
		assert.Less(t, frames, 10)
	})
}

func TestRenderer_KeepsNewestRequest(t *testing.T) {
	t.Parallel()

	// Given
	renderer := NewRenderer()

	// When: requests arrive faster than the loop picks them up
	for handle := uint64(1); handle <= 5; handle++ {
		renderer.RequestDropAnimation(entity.AnimationRequest{Handle: handle, FromRow: 6, Mark: entity.Player1})
	}

	// Then: only the latest one is delivered
	msg := renderer.waitForAnimation()()
	assert.Equal(t, animationStartedMsg(entity.AnimationRequest{Handle: 5, FromRow: 6, Mark: entity.Player1}), msg)
	assert.Empty(t, renderer.requests)
}
