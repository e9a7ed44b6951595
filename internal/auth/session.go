// Package auth implements the login session state machine: a pure
// transition function over a small session state, plus a Manager that
// drives it from the external token service and persists the session to a
// key-value store.
package auth

import "farmwork-hub-go/internal/models"

// State is the session state. Exactly one of the four situations holds:
// anonymous (no user, no token), loading (a call in flight), authenticated
// (user and token set) or error (last attempt failed, Error set).
type State struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
	Error           string       `json:"error,omitempty"`
}

// ActionType identifies a session transition.
type ActionType string

const (
	AuthStart   ActionType = "AUTH_START"
	AuthSuccess ActionType = "AUTH_SUCCESS"
	AuthFailure ActionType = "AUTH_FAILURE"
	Logout      ActionType = "LOGOUT"
	UpdateUser  ActionType = "UPDATE_USER"
	ClearError  ActionType = "CLEAR_ERROR"
)

// Action is one input to Reduce. User and Token accompany AUTH_SUCCESS;
// User alone carries the partial patch for UPDATE_USER; Message carries the
// failure text for AUTH_FAILURE.
type Action struct {
	Type    ActionType
	User    *models.User
	Token   string
	Message string
}

// Anonymous is the initial state.
func Anonymous() State {
	return State{}
}

// Reduce returns the state that follows applying action to s. It is pure:
// s is never mutated and the user snapshot is copied on update.
func Reduce(s State, action Action) State {
	switch action.Type {
	case AuthStart:
		return State{
			User:      s.User,
			Token:     s.Token,
			IsLoading: true,
		}
	case AuthSuccess:
		return State{
			User:            action.User,
			Token:           action.Token,
			IsAuthenticated: true,
		}
	case AuthFailure:
		return State{Error: action.Message}
	case Logout:
		return State{}
	case UpdateUser:
		if !s.IsAuthenticated || s.User == nil || action.User == nil {
			return s
		}
		merged := s.User.Merge(*action.User)
		return State{
			User:            &merged,
			Token:           s.Token,
			IsAuthenticated: true,
		}
	case ClearError:
		if s.Error == "" {
			return s
		}
		return State{}
	default:
		return s
	}
}
