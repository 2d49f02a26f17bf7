package auth

// Context carries the bearer credentials for one browser session. It is
// built once per request from the session and passed explicitly into
// every backend call; nothing reads tokens from package state.
type Context struct {
	SessionToken string
	RefreshToken string
}

// Authenticated reports whether a session token is present.
func (c *Context) Authenticated() bool {
	return c != nil && c.SessionToken != ""
}
