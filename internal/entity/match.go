package entity

// Match is the snapshot of one match handed to remote UIs and the match store.
type Match struct {
	ID       string    `json:"id"`
	Board    Board     `json:"board"`
	Turn     Side      `json:"turn"`
	Starter  Side      `json:"starter"`
	Result   Result    `json:"result"`
	LastMove *Position `json:"last_move,omitempty"`
}

func (that *Match) IsFinished() bool {
	return that.Result.IsTerminal()
}
