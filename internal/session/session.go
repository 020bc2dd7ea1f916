// Package session carries the authenticated user's identity through the UI.
// Pages receive a *Session and a Notifier by injection rather than reaching
// for ambient globals.
package session

import "leadcrm/internal/crm"

// Session is the per-run authentication context: who is logged in and the
// bearer token the API client sends.
type Session struct {
	User  crm.User
	Token string

	perms crm.Permissions
}

// New builds a session and derives the permission set once.
func New(user crm.User, token string) *Session {
	return &Session{
		User:  user,
		Token: token,
		perms: crm.PermissionsFor(user.Role),
	}
}

// Role returns the current user's role.
func (s *Session) Role() crm.Role { return s.User.Role }

// Permissions returns the derived permission set.
func (s *Session) Permissions() crm.Permissions { return s.perms }

// UserID returns the current user's id.
func (s *Session) UserID() int64 { return s.User.UserID }

// Notifier surfaces transient messages to the user. The TUI shell implements
// it with banners; tests implement it with a recorder.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
	Warning(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
func (NopNotifier) Info(string)    {}
func (NopNotifier) Warning(string) {}
