package middleware

import "context"

type contextKey string

const (
	ctxSubject contextKey = "admin_subject"
	ctxRole    contextKey = "actor_role"
)

// SubjectFromContext returns the admin token subject seeded by AdminAuth.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSubject).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}
