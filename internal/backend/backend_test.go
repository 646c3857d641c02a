package backend

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignalType(t *testing.T) {
	for _, st := range SignalTypes() {
		parsed, err := ParseSignalType(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := ParseSignalType("co2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegionQueryValidate(t *testing.T) {
	cases := []struct {
		name  string
		query RegionQuery
		ok    bool
	}{
		{"documented example", RegionQuery{SignalType: SignalCO2MOER, Latitude: 42.372, Longitude: -72.519}, true},
		{"poles", RegionQuery{SignalType: SignalHealthDamage, Latitude: -90, Longitude: 180}, true},
		{"latitude too high", RegionQuery{SignalType: SignalCO2MOER, Latitude: 90.1}, false},
		{"longitude too low", RegionQuery{SignalType: SignalCO2AOER, Longitude: -180.5}, false},
		{"empty signal", RegionQuery{Latitude: 1, Longitude: 1}, false},
		{"latitude NaN", RegionQuery{SignalType: SignalCO2MOER, Latitude: math.NaN(), Longitude: 1}, false},
		{"longitude NaN", RegionQuery{SignalType: SignalCO2MOER, Latitude: 1, Longitude: math.NaN()}, false},
		{"latitude infinite", RegionQuery{SignalType: SignalCO2MOER, Latitude: math.Inf(1), Longitude: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	reg := Registration{Username: "freddo", Password: "the_frog", Email: "freddo@frog.org"}
	require.NoError(t, reg.Validate())

	reg.Email = ""
	assert.ErrorIs(t, reg.Validate(), ErrInvalidInput)
}

func TestUnimplemented(t *testing.T) {
	ctx := context.Background()
	var b Backend = Unimplemented{}

	_, err := b.Register(ctx, Registration{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = b.Login(ctx, Credentials{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = b.ResetPassword(ctx, "freddo")
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = b.RegionFromLoc(ctx, RegionQuery{})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestCoordinatesNotFoundIsNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrCoordinatesNotFound, ErrNotFound))
	assert.Contains(t, ErrCoordinatesNotFound.Error(), "Coordinates not found")
}

func TestStatusErrorUnwrap(t *testing.T) {
	err := &StatusError{Status: 403, Message: "forbidden", Err: ErrUnauthorized}
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "forbidden", err.Error())

	bare := &StatusError{Status: 502, Err: ErrUpstream}
	assert.Equal(t, ErrUpstream.Error(), bare.Error())
}
