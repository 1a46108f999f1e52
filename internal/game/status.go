package game

// Status is the session state machine's position. Won and Lost are the two
// terminal sub-outcomes of the ended state.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusCategorySelection Status = "category-selection"
	StatusQuestioning       Status = "questioning"
	StatusWon               Status = "won"
	StatusLost              Status = "lost"
)

func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Active reports whether a session token exists in this state.
func (s Status) Active() bool {
	return s == StatusCategorySelection || s == StatusQuestioning
}

func (s Status) String() string {
	return string(s)
}
