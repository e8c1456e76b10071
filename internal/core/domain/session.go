package domain

// Session is the authenticated identity held for a portal user: the
// bearer token issued by the core API plus the derived profile. The
// two fields are written and cleared together — a session either has
// both or is empty, never one without the other.
type Session struct {
	ID    string       `json:"-"`
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// IsZero reports whether the session is empty (unauthenticated).
func (s Session) IsZero() bool {
	return s.Token == "" || s.User == nil
}
