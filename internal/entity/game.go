package entity

import "fmt"

type Cell int8

const (
	Empty Cell = iota
	Player1
	Player2
)

func (that Cell) IsMark() bool {
	return that == Player1 || that == Player2
}

// Opponent - the other player's mark, Empty for Empty.
func (that Cell) Opponent() Cell {
	switch that {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return Empty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that Cell) String() string {
	switch that {
	case Empty:
		return "empty"
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return fmt.Sprintf("cell(%d)", int8(that))
	}
}

type Outcome int

const (
	InProgress Outcome = iota
	Player1Win
	Player2Win
	Draw
)

// WinFor - the outcome in which mark has won.
func WinFor(mark Cell) Outcome {
	switch mark {
	case Player1:
		return Player1Win
	case Player2:
		return Player2Win
	default:
		return InProgress
	}
}

func (that Outcome) IsFinished() bool {
	return that != InProgress
}

func (that Outcome) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that Outcome) String() string {
	switch that {
	case InProgress:
		return "in_progress"
	case Player1Win:
		return "player1_win"
	case Player2Win:
		return "player2_win"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(that))
	}
}

type TurnState int

const (
	AwaitingPlayer1Input TurnState = iota
	AnimatingPlayer1
	AwaitingPlayer2Decision
	AnimatingPlayer2
	Finished
)

func (that TurnState) IsAnimating() bool {
	return that == AnimatingPlayer1 || that == AnimatingPlayer2
}

func (that TurnState) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that TurnState) String() string {
	switch that {
	case AwaitingPlayer1Input:
		return "awaiting_player1_input"
	case AnimatingPlayer1:
		return "animating_player1"
	case AwaitingPlayer2Decision:
		return "awaiting_player2_decision"
	case AnimatingPlayer2:
		return "animating_player2"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(that))
	}
}
