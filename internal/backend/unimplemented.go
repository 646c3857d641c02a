package backend

import "context"

// Unimplemented answers every operation with ErrNotImplemented. It is the
// default backend: the documented routes exist, the logic behind them lives
// elsewhere.
type Unimplemented struct{}

func (Unimplemented) Register(context.Context, Registration) (Registered, error) {
	return Registered{}, ErrNotImplemented
}

func (Unimplemented) Login(context.Context, Credentials) (Token, error) {
	return Token{}, ErrNotImplemented
}

func (Unimplemented) ResetPassword(context.Context, string) (PasswordReset, error) {
	return PasswordReset{}, ErrNotImplemented
}

func (Unimplemented) RegionFromLoc(context.Context, RegionQuery) (Region, error) {
	return Region{}, ErrNotImplemented
}
