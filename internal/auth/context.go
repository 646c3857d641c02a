package auth

import "context"

type contextKey string

const (
	contextKeySubject     contextKey = "auth.subject"
	contextKeyBearer      contextKey = "auth.bearer"
	contextKeyCredentials contextKey = "auth.credentials"
)

// Credentials are decoded HTTP basic credentials.
type Credentials struct {
	Username string
	Password string
}

// WithSubject stores the authenticated subject in context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKeySubject, subject)
}

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if subject, ok := ctx.Value(contextKeySubject).(string); ok {
		return subject
	}
	return ""
}

// WithBearer stores the raw bearer token in context.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyBearer, token)
}

// BearerFromContext extracts the raw bearer token from context.
func BearerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if token, ok := ctx.Value(contextKeyBearer).(string); ok {
		return token
	}
	return ""
}

// WithCredentials stores basic credentials in context.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, contextKeyCredentials, creds)
}

// CredentialsFromContext extracts basic credentials from context.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	if ctx == nil {
		return Credentials{}, false
	}
	creds, ok := ctx.Value(contextKeyCredentials).(Credentials)
	return creds, ok
}
