// Package backend defines the port the HTTP routes delegate to. Implementations
// live in subpackages; this package only carries request and result shapes.
package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// SignalType selects which grid-region dataset a lookup uses.
type SignalType string

const (
	SignalCO2MOER      SignalType = "co2_moer"
	SignalCO2AOER      SignalType = "co2_aoer"
	SignalHealthDamage SignalType = "health_damage"
)

// SignalTypes lists every accepted signal type in documentation order.
func SignalTypes() []SignalType {
	return []SignalType{SignalCO2MOER, SignalCO2AOER, SignalHealthDamage}
}

// ParseSignalType validates a raw signal type value.
func ParseSignalType(value string) (SignalType, error) {
	for _, st := range SignalTypes() {
		if string(st) == value {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown signal_type %q", ErrInvalidInput, value)
}

// Registration is a self-registration request.
type Registration struct {
	Username string
	Password string
	Email    string
	Org      string
}

// Validate checks required registration fields.
func (r Registration) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return nil
}

// Registered is the outcome of a registration.
type Registered struct {
	User string
	OK   string
}

// Credentials are HTTP basic credentials exchanged for a token.
type Credentials struct {
	Username string
	Password string
}

// Token is an access token issued by a login exchange.
type Token struct {
	Token string
}

// PasswordReset is the acknowledgement of a password reset request.
type PasswordReset struct {
	OK string
}

// RegionQuery locates the grid region serving a coordinate.
type RegionQuery struct {
	SignalType SignalType
	Latitude   float64
	Longitude  float64
	// BearerToken is the caller's access token, forwarded as is.
	BearerToken string
}

// Validate checks coordinate ranges and the signal type.
func (q RegionQuery) Validate() error {
	if _, err := ParseSignalType(string(q.SignalType)); err != nil {
		return err
	}
	if math.IsNaN(q.Latitude) || q.Latitude < -90 || q.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidInput)
	}
	if math.IsNaN(q.Longitude) || q.Longitude < -180 || q.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidInput)
	}
	return nil
}

// Region is a grid balancing area.
type Region struct {
	Abbrev     string
	Name       string
	SignalType SignalType
}

// Backend serves the documented operations.
type Backend interface {
	Register(ctx context.Context, req Registration) (Registered, error)
	Login(ctx context.Context, creds Credentials) (Token, error)
	ResetPassword(ctx context.Context, username string) (PasswordReset, error)
	RegionFromLoc(ctx context.Context, query RegionQuery) (Region, error)
}

var (
	ErrNotImplemented = errors.New("backend: not implemented")
	ErrUnauthorized   = errors.New("backend: unauthorized")
	ErrNotFound       = errors.New("backend: not found")
	ErrInvalidInput   = errors.New("backend: invalid input")
	ErrUpstream       = errors.New("backend: upstream failure")
)

// ErrCoordinatesNotFound is returned when a point lies outside covered regions.
var ErrCoordinatesNotFound = fmt.Errorf("%w: Coordinates not found", ErrNotFound)

// StatusError carries an HTTP status reported by a remote backend.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *StatusError) Unwrap() error { return e.Err }
