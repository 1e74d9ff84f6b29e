// Package session carries the authenticated user identity the sync
// coordinator operates on behalf of.
//
// Authentication itself is an external collaborator; skiff only receives a
// stable user id and an access token. The session is passed explicitly at
// construction so there is no ambient auth singleton, and tearing down a
// coordinator fully discards the previous user's state.
package session

import "errors"

// ErrNoUser is returned when an operation requires an authenticated user
// and none is configured. Sync is a no-op without a user.
var ErrNoUser = errors.New("no authenticated user")

// Session identifies the user whose tasks are being synchronized.
type Session struct {
	// UserID scopes the local cache, the pending queue, and every remote
	// call. Stable across logins.
	UserID string

	// Token authenticates remote calls. Opaque to skiff.
	Token string
}

// New builds a session. The user id is required; the token may be empty
// for offline-only use.
func New(userID, token string) (Session, error) {
	if userID == "" {
		return Session{}, ErrNoUser
	}
	return Session{UserID: userID, Token: token}, nil
}

// Valid reports whether the session names a user.
func (s Session) Valid() bool {
	return s.UserID != ""
}
