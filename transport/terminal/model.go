package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/connectfour/internal/entity"
)

const (
	pieceGlyph = "●"
	emptyGlyph = "·"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	boardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginLeft(2)

	cellStyle = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center)

	player1Style = cellStyle.Foreground(lipgloss.Color("196"))
	player2Style = cellStyle.Foreground(lipgloss.Color("33"))
	emptyStyle   = cellStyle.Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().MarginLeft(2)
)

type game interface {
	StartNewGame(ctx context.Context, humanGoesFirst bool) error
	NotifyHumanColumnChosen(ctx context.Context, column int) (bool, error)
	OnAnimationComplete(ctx context.Context, handle uint64) error
	State() entity.TurnState
	Outcome() entity.Outcome
	AcceptsInput() bool
	Snapshot() entity.Snapshot
}

type scoreboard interface {
	Totals(ctx context.Context) (entity.Score, error)
}

type scoreMsg entity.Score

// Model - the bubbletea model that renders the board and drives the animation contract.
type Model struct {
	ctx        context.Context
	logger     *slog.Logger
	game       game
	renderer   *Renderer
	scoreboard scoreboard
	physics    Physics
	humanFirst bool

	keys    keyMap
	help    help.Model
	cursor  int
	falling *fallingPiece
	score   *entity.Score
	err     error
}

// NewModel - scoreboard may be nil.
func NewModel(
	ctx context.Context,
	logger *slog.Logger,
	game game,
	renderer *Renderer,
	scoreboard scoreboard,
	physics Physics,
	humanFirst bool,
) Model {
	return Model{
		ctx:        ctx,
		logger:     logger.With("component", "terminal"),
		game:       game,
		renderer:   renderer,
		scoreboard: scoreboard,
		physics:    physics,
		humanFirst: humanFirst,
		keys:       newKeyMap(),
		help:       help.New(),
		cursor:     game.Snapshot().Width() / 2,
	}
}

func (that Model) Init() tea.Cmd {
	return tea.Batch(that.renderer.waitForAnimation(), that.loadScore())
}

func (that Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return that.handleKey(msg)

	case animationStartedMsg:
		piece := newFallingPiece(entity.AnimationRequest(msg), that.physics)
		that.falling = &piece

		return that, tea.Batch(frameTick(that.physics.FrameDelay, msg.Handle), that.renderer.waitForAnimation())

	case frameMsg:
		return that.handleFrame(msg)

	case scoreMsg:
		score := entity.Score(msg)
		that.score = &score

	case tea.WindowSizeMsg:
		that.help.Width = msg.Width
	}

	return that, nil
}

func (that Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	width := that.game.Snapshot().Width()

	switch {
	case key.Matches(msg, that.keys.Quit):
		return that, tea.Quit

	case key.Matches(msg, that.keys.Left):
		if that.cursor > 0 {
			that.cursor--
		}

	case key.Matches(msg, that.keys.Right):
		if that.cursor < width-1 {
			that.cursor++
		}

	case key.Matches(msg, that.keys.Column):
		column := int(msg.Runes[0] - '1')
		if column < width {
			that.cursor = column
			that.drop()
		}

	case key.Matches(msg, that.keys.Drop):
		that.drop()

	case key.Matches(msg, that.keys.NewGame):
		that.falling = nil
		that.err = that.game.StartNewGame(that.ctx, that.humanFirst)
		if that.err != nil {
			that.logger.Error("failed to start new game", "error", that.err)
		}
	}

	return that, nil
}

func (that *Model) drop() {
	accepted, err := that.game.NotifyHumanColumnChosen(that.ctx, that.cursor)
	if err != nil {
		that.err = err
		that.logger.Error("human move failed", "column", that.cursor, "error", err)

		return
	}

	if !accepted {
		that.logger.Debug("column rejected", "column", that.cursor)
	}
}

func (that Model) handleFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	if that.falling == nil || that.falling.req.Handle != msg.handle {
		return that, nil
	}

	if !that.falling.done() {
		next := that.falling.next()
		that.falling = &next

		return that, frameTick(that.physics.FrameDelay, msg.handle)
	}

	that.falling = nil

	if err := that.game.OnAnimationComplete(that.ctx, msg.handle); err != nil {
		that.err = err
		that.logger.Error("animation completion failed", "handle", msg.handle, "error", err)

		return that, nil
	}

	if that.game.State() == entity.Finished {
		return that, that.loadScore()
	}

	return that, nil
}

func (that Model) loadScore() tea.Cmd {
	if that.scoreboard == nil {
		return nil
	}

	return func() tea.Msg {
		score, err := that.scoreboard.Totals(that.ctx)
		if err != nil {
			that.logger.Warn("failed to load score", "error", err)

			return nil
		}

		return scoreMsg(score)
	}
}

func (that Model) View() string {
	var view strings.Builder

	view.WriteString(titleStyle.Render("Connect Four"))
	view.WriteString("\n\n")
	view.WriteString(boardStyle.Render(that.renderBoard()))
	view.WriteString("\n")
	view.WriteString(statusStyle.Render(that.status()))
	view.WriteString("\n")

	if that.score != nil {
		view.WriteString(statusStyle.Render(fmt.Sprintf(
			"You %d · Opponent %d · Draws %d", that.score.Player1Wins, that.score.Player2Wins, that.score.Draws,
		)))
		view.WriteString("\n")
	}

	if that.err != nil {
		view.WriteString(errorStyle.Render(that.err.Error()))
		view.WriteString("\n")
	}

	view.WriteString("\n")
	view.WriteString(helpStyle.Render(that.help.View(that.keys)))

	return view.String()
}

// renderBoard - the hover row above the board, then the rows from top to bottom.
func (that Model) renderBoard() string {
	snapshot := that.game.Snapshot()
	rows := make([]string, 0, snapshot.Height()+1)

	for row := snapshot.Height(); row >= 0; row-- {
		cells := make([]string, snapshot.Width())

		for column := range cells {
			cells[column] = that.renderCell(snapshot, row, column)
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (that Model) renderCell(snapshot entity.Snapshot, row, column int) string {
	if that.falling != nil && that.falling.req.Column == column && that.falling.row() == row {
		return pieceStyle(that.falling.req.Mark).Render(pieceGlyph)
	}

	if row == snapshot.Height() {
		if that.falling == nil && that.game.AcceptsInput() && column == that.cursor {
			return pieceStyle(entity.Player1).Render(pieceGlyph)
		}

		return cellStyle.Render(" ")
	}

	// The target cell is already placed on the board; it stays hidden until the piece lands.
	if that.falling != nil && that.falling.req.Column == column && that.falling.req.ToRow == row {
		return emptyStyle.Render(emptyGlyph)
	}

	cell, err := snapshot.ValueAt(row, column)
	if err != nil || !cell.IsMark() {
		return emptyStyle.Render(emptyGlyph)
	}

	return pieceStyle(cell).Render(pieceGlyph)
}

func pieceStyle(mark entity.Cell) lipgloss.Style {
	if mark == entity.Player2 {
		return player2Style
	}

	return player1Style
}

func (that Model) status() string {
	switch that.game.State() {
	case entity.AwaitingPlayer1Input:
		return "Your turn"
	case entity.AnimatingPlayer1, entity.AnimatingPlayer2:
		return ""
	case entity.AwaitingPlayer2Decision:
		return "Opponent is thinking"
	case entity.Finished:
		return finishedMessage(that.game.Outcome())
	}

	return ""
}

func finishedMessage(outcome entity.Outcome) string {
	switch outcome {
	case entity.Player1Win:
		return "You Win! Press n for a new game"
	case entity.Player2Win:
		return "You Lose! Press n for a new game"
	case entity.Draw:
		return "Draw. Press n for a new game"
	case entity.InProgress:
	}

	return ""
}
