package apihttp

import (
	"math"

	"github.com/danielgtaylor/huma/v2"
)

// Query parameters shared between operations are declared once and embedded.

// UsernameParam identifies the account an operation acts on.
type UsernameParam struct {
	Username string `query:"username" required:"true" doc:"name of user that will be used in subsequent calls" example:"freddo"`
}

// PasswordParam is the password chosen at registration.
type PasswordParam struct {
	Password string `query:"password" required:"true" doc:"user password. Password must be at least 8 characters, with at least 1 of each alpha, number and special characters." example:"the_frog"`
}

// EmailParam is the contact address for account notices.
type EmailParam struct {
	Email string `query:"email" required:"true" format:"email" doc:"valid email address. The email address used to register will only be used for communication regarding API outages and updates. The email address will not be shared or used for any other promotional purpose. For others in your organization who would like these updates, they can subscribe to our Status Page." example:"freddo@frog.org"`
}

// OrgParam is an optional organization name.
type OrgParam struct {
	Org string `query:"org" doc:"organization name" example:"freds world"`
}

// SignalTypeParam selects the region dataset.
type SignalTypeParam struct {
	SignalType string `query:"signal_type" required:"true" enum:"co2_moer,co2_aoer,health_damage" doc:"signal_type for which to look up region" example:"co2_moer"`
}

// LocationParam is a WGS84 coordinate.
type LocationParam struct {
	Latitude  float64 `query:"latitude" required:"true" minimum:"-90" maximum:"90" doc:"Latitude of desired location" example:"42.372"`
	Longitude float64 `query:"longitude" required:"true" minimum:"-180" maximum:"180" doc:"Longitude of desired location" example:"-72.519"`
}

// Resolve rejects NaN and infinities, which slip past minimum/maximum.
func (p *LocationParam) Resolve(huma.Context) []error {
	var errs []error
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		errs = append(errs, &huma.ErrorDetail{Location: "query.latitude", Message: "expected a finite number", Value: p.Latitude})
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		errs = append(errs, &huma.ErrorDetail{Location: "query.longitude", Message: "expected a finite number", Value: p.Longitude})
	}
	return errs
}

// RegisterInput is the /register query.
type RegisterInput struct {
	UsernameParam
	PasswordParam
	EmailParam
	OrgParam
}

// PasswordInput is the /password query.
type PasswordInput struct {
	UsernameParam
}

// RegionLocInput is the /v3/region-from-loc query.
type RegionLocInput struct {
	SignalTypeParam
	LocationParam
}

type RegisterResponse struct {
	User string `json:"user" doc:"username of the created account" example:"freddo"`
	OK   string `json:"ok" doc:"confirmation message" example:"User created"`
}

type LoginResponse struct {
	Token string `json:"token" doc:"access token, valid for 30 minutes" example:"abcdef0123456789fedcabc"`
}

type PasswordResponse struct {
	OK string `json:"ok" doc:"confirmation message" example:"Please check your email for the password reset link"`
}

type RegionLocResponse struct {
	Abbrev     string `json:"abbrev" doc:"region abbreviation" example:"ISONE_WCMA"`
	Name       string `json:"name" doc:"region full name" example:"ISONE Western/Central Massachusetts"`
	SignalType string `json:"signal_type" doc:"signal type the region belongs to" example:"co2_moer"`
}

type RegisterOutput struct {
	Body RegisterResponse
}

type LoginOutput struct {
	Body LoginResponse
}

type PasswordOutput struct {
	Body PasswordResponse
}

type RegionLocOutput struct {
	Body RegionLocResponse
}
