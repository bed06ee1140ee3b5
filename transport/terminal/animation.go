package terminal

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

// Physics - fall speed in rows per frame and its increase per frame.
type Physics struct {
	FrameDelay      time.Duration
	InitialVelocity float64
	Gravity         float64
}

// fallingPiece - a piece accelerating from req.FromRow down to req.ToRow.
type fallingPiece struct {
	req      entity.AnimationRequest
	fallen   float64
	velocity float64
	gravity  float64
}

func newFallingPiece(req entity.AnimationRequest, physics Physics) fallingPiece {
	return fallingPiece{
		req:      req,
		velocity: physics.InitialVelocity,
		gravity:  physics.Gravity,
	}
}

func (that fallingPiece) distance() float64 {
	return float64(that.req.FromRow - that.req.ToRow)
}

// next - the piece one frame later.
func (that fallingPiece) next() fallingPiece {
	that.fallen += that.velocity
	that.velocity += that.gravity

	return that
}

// done - the piece is closer to its target now than it would be after another frame.
func (that fallingPiece) done() bool {
	return math.Abs(that.fallen-that.distance()) < math.Abs(that.fallen+that.velocity-that.distance())
}

// row - the row the piece is drawn on, between FromRow and ToRow.
func (that fallingPiece) row() int {
	row := that.req.FromRow - int(math.Round(that.fallen))
	if row < that.req.ToRow {
		return that.req.ToRow
	}

	if row > that.req.FromRow {
		return that.req.FromRow
	}

	return row
}

type frameMsg struct {
	handle uint64
}

func frameTick(delay time.Duration, handle uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return frameMsg{handle: handle}
	})
}
