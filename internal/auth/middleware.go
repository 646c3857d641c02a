package auth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Middleware enforces the security scheme each operation declares.
//
// Bearer operations need an `Authorization: Bearer` header. With a secret the
// token must be a valid, unexpired HS256 JWT and its subject lands in the
// request context; without one the token is only required to be present and
// is handed on untouched. Basic operations need decodable credentials, which
// are placed in the context for the handler.
type Middleware struct {
	Secret []byte
	Policy Policy
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(secret []byte, policy Policy) *Middleware {
	return &Middleware{Secret: secret, Policy: policy}
}

// Handler returns the huma middleware bound to api for error rendering.
func (m *Middleware) Handler(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if m == nil {
			next(ctx)
			return
		}
		scheme, ok := m.Policy.RequiredScheme(ctx.Operation())
		if !ok {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")
		switch scheme {
		case SchemeBasic:
			creds, ok := extractBasic(header)
			if !ok {
				ctx.SetHeader("WWW-Authenticate", `Basic realm="watttime"`)
				_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "unauthorized", ErrMissingCredentials)
				return
			}
			ctx = huma.WithValue(ctx, contextKeyCredentials, creds)
			ctx = huma.WithValue(ctx, contextKeySubject, creds.Username)
		case SchemeBearer:
			token := extractBearer(header)
			if token == "" {
				ctx.SetHeader("WWW-Authenticate", "Bearer")
				_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "unauthorized", ErrMissingCredentials)
				return
			}
			if len(m.Secret) > 0 {
				claims, err := ParseJWT(token, m.Secret)
				if err != nil {
					ctx.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
					_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "unauthorized", ErrInvalidToken)
					return
				}
				ctx = huma.WithValue(ctx, contextKeySubject, claims.Subject)
			}
			ctx = huma.WithValue(ctx, contextKeyBearer, token)
		}
		next(ctx)
	}
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func extractBasic(header string) (Credentials, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return Credentials{}, false
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Credentials{}, false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" {
		return Credentials{}, false
	}
	return Credentials{Username: username, Password: password}, true
}
