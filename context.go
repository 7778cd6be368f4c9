package adminauth

import "context"

type clientIPContextKey struct{}

// WithClientIP attaches the caller's address to ctx. The gateway keys the
// login rate limit on it and stamps it into audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
