package domain

type Artist struct {
	Name string `json:"name"`
}

type Album struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

type CommandState string

const (
	CommandCreated   CommandState = "created"
	CommandEnqueued  CommandState = "enqueued"
	CommandRunning   CommandState = "running"
	CommandCompleted CommandState = "completed"
	CommandFailed    CommandState = "failed"
	CommandTimedOut  CommandState = "timed_out"
)

// Terminal reports whether a command in state s has left the queue.
func (s CommandState) Terminal() bool {
	switch s {
	case CommandCompleted, CommandFailed, CommandTimedOut:
		return true
	default:
		return false
	}
}
