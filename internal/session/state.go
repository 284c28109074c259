package session

// State is the lifecycle phase of an interview capture session.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateReconnecting
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateReconnecting:
		return "reconnecting"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
