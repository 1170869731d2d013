package session

// State is a position in the session lifecycle.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateActive
	StateLoggedOut
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateActive:
		return "active"
	case StateLoggedOut:
		return "logged out"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}
