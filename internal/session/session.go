// Package session carries the shopper identity handed to the core by
// the external auth collaborator. It is passed explicitly into the sync
// gateway and checkout orchestrator; there is no process-wide session
// state.
package session

// Session identifies the current shopper. A zero UserID means a guest:
// guests can shop and check out, but their carts are never synced.
type Session struct {
	UserID string
}

// Guest reports whether the session has no authenticated identity.
func (s Session) Guest() bool {
	return s.UserID == ""
}
