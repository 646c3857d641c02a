// Package mock is a sandbox backend that answers with the documented example
// responses. It checks nothing and stores nothing.
package mock

import (
	"context"
	"fmt"
	"time"

	"watttime-api/internal/auth"
	"watttime-api/internal/backend"
)

// Documented example values.
const (
	ExampleToken        = "abcdef0123456789fedcabc"
	ExampleRegionAbbrev = "ISONE_WCMA"
	ExampleRegionName   = "ISONE Western/Central Massachusetts"
	RegisteredMessage   = "User created"
	PasswordMessage     = "Please check your email for the password reset link"
)

// Backend is the sandbox implementation of backend.Backend.
type Backend struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New constructs a sandbox backend. With a secret, Login returns a signed
// token that the bearer middleware accepts for ttl; without one it returns
// the documented example token.
func New(secret []byte, ttl time.Duration) *Backend {
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	return &Backend{secret: secret, ttl: ttl, now: time.Now}
}

func (b *Backend) Register(_ context.Context, req backend.Registration) (backend.Registered, error) {
	if err := req.Validate(); err != nil {
		return backend.Registered{}, err
	}
	return backend.Registered{User: req.Username, OK: RegisteredMessage}, nil
}

func (b *Backend) Login(_ context.Context, creds backend.Credentials) (backend.Token, error) {
	if creds.Username == "" {
		return backend.Token{}, backend.ErrUnauthorized
	}
	if len(b.secret) == 0 {
		return backend.Token{Token: ExampleToken}, nil
	}
	token, err := auth.IssueJWT(b.secret, creds.Username, b.ttl, b.now())
	if err != nil {
		return backend.Token{}, fmt.Errorf("mock: issue token: %w", err)
	}
	return backend.Token{Token: token}, nil
}

func (b *Backend) ResetPassword(_ context.Context, username string) (backend.PasswordReset, error) {
	if username == "" {
		return backend.PasswordReset{}, fmt.Errorf("%w: username is required", backend.ErrInvalidInput)
	}
	return backend.PasswordReset{OK: PasswordMessage}, nil
}

func (b *Backend) RegionFromLoc(_ context.Context, query backend.RegionQuery) (backend.Region, error) {
	if err := query.Validate(); err != nil {
		return backend.Region{}, err
	}
	return backend.Region{
		Abbrev:     ExampleRegionAbbrev,
		Name:       ExampleRegionName,
		SignalType: query.SignalType,
	}, nil
}
