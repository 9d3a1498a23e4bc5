package entity

// Mark is the content of a single board cell. The human plays MinPlayer and
// always opens, the agent plays MaxPlayer.
type Mark string

const (
	Empty     Mark = ""
	MinPlayer Mark = "x"
	MaxPlayer Mark = "o"
)

// Opponent returns the player who moves after that one.
func (that Mark) Opponent() Mark {
	if that == MinPlayer {
		return MaxPlayer
	}
	return MinPlayer
}

func (that Mark) IsPlayer() bool {
	return that == MinPlayer || that == MaxPlayer
}

func (that Mark) IsValid() bool {
	return that == Empty || that.IsPlayer()
}
