package ctxutil

import "context"

type sessionKey struct{}

// Session is the authenticated access attached to a request.
type Session struct {
	Access    string
	SessionID string
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func GetSession(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return s
	}
	return nil
}
