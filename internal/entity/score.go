package entity

// Score - finished games per outcome.
type Score struct {
	Player1Wins int64 `json:"player1_wins"`
	Player2Wins int64 `json:"player2_wins"`
	Draws       int64 `json:"draws"`
}

func (that *Score) Add(outcome Outcome, n int64) {
	switch outcome {
	case Player1Win:
		that.Player1Wins += n
	case Player2Win:
		that.Player2Wins += n
	case Draw:
		that.Draws += n
	case InProgress:
	}
}

func (that Score) Games() int64 {
	return that.Player1Wins + that.Player2Wins + that.Draws
}
