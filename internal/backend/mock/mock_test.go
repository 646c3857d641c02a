package mock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watttime-api/internal/auth"
	"watttime-api/internal/backend"
)

func TestRegister(t *testing.T) {
	b := New(nil, 0)
	out, err := b.Register(context.Background(), backend.Registration{
		Username: "freddo",
		Password: "the_frog",
		Email:    "freddo@frog.org",
		Org:      "freds world",
	})
	require.NoError(t, err)
	assert.Equal(t, backend.Registered{User: "freddo", OK: "User created"}, out)

	_, err = b.Register(context.Background(), backend.Registration{Username: "freddo"})
	assert.ErrorIs(t, err, backend.ErrInvalidInput)
}

func TestLoginExampleToken(t *testing.T) {
	b := New(nil, 0)
	out, err := b.Login(context.Background(), backend.Credentials{Username: "freddo", Password: "the_frog"})
	require.NoError(t, err)
	assert.Equal(t, ExampleToken, out.Token)

	_, err = b.Login(context.Background(), backend.Credentials{})
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestLoginSignedToken(t *testing.T) {
	secret := []byte("sandbox-secret")
	b := New(secret, 0)
	issued := time.Now()
	b.now = func() time.Time { return issued }

	out, err := b.Login(context.Background(), backend.Credentials{Username: "freddo", Password: "the_frog"})
	require.NoError(t, err)

	claims, err := auth.ParseJWT(out.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, "freddo", claims.Subject)
	assert.WithinDuration(t, issued.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestResetPassword(t *testing.T) {
	b := New(nil, 0)
	out, err := b.ResetPassword(context.Background(), "freddo")
	require.NoError(t, err)
	assert.Equal(t, PasswordMessage, out.OK)

	_, err = b.ResetPassword(context.Background(), "")
	assert.ErrorIs(t, err, backend.ErrInvalidInput)
}

func TestRegionFromLoc(t *testing.T) {
	b := New(nil, 0)
	out, err := b.RegionFromLoc(context.Background(), backend.RegionQuery{
		SignalType: backend.SignalHealthDamage,
		Latitude:   42.372,
		Longitude:  -72.519,
	})
	require.NoError(t, err)
	assert.Equal(t, ExampleRegionAbbrev, out.Abbrev)
	assert.Equal(t, ExampleRegionName, out.Name)
	assert.Equal(t, backend.SignalHealthDamage, out.SignalType)

	_, err = b.RegionFromLoc(context.Background(), backend.RegionQuery{SignalType: "nope"})
	assert.ErrorIs(t, err, backend.ErrInvalidInput)
}
