package catalog

import "net/http"

// Operation ids. They match the ids the FastAPI-era generator produced so
// generated clients keep their method names.
const (
	OpRegister      = "post_username_register_post"
	OpLogin         = "get_token_login_get"
	OpPassword      = "get_password_password_get"
	OpRegionFromLoc = "get_reg_loc_v3_region_from_loc_get"
)

// Security scheme names, mirrored by the auth package.
const (
	SchemeBasic  = "basicAuth"
	SchemeBearer = "bearerAuth"
)

// Operation is the documentation of one route.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	// Scheme is the required security scheme, empty for public routes.
	Scheme string
	Sample CodeSample
}

func operations() []Operation {
	return []Operation{
		{
			ID:          OpRegister,
			Method:      http.MethodPost,
			Path:        "/register",
			Summary:     "Register New User",
			Description: "Provide basic information to self register for an account.",
			Tags:        []string{TagAuthentication},
			Sample:      pythonSample(registerSample),
		},
		{
			ID:      OpLogin,
			Method:  http.MethodGet,
			Path:    "/login",
			Summary: "Login & Obtain Token",
			Description: "Use HTTP basic auth to exchange username and password for an access token. " +
				"Remember that you need to include this token in an authorization bearer header for all subsequent data calls. " +
				"This header has the form: `Authorization: Bearer <your_token>`",
			Tags:   []string{TagAuthentication},
			Scheme: SchemeBasic,
			Sample: pythonSample(loginSample),
		},
		{
			ID:          OpPassword,
			Method:      http.MethodGet,
			Path:        "/password",
			Summary:     "Password Reset",
			Description: "Provide your username to request an email be sent to you with password reset instructions.",
			Tags:        []string{TagAuthentication},
			Sample:      pythonSample(passwordSample),
		},
		{
			ID:      OpRegionFromLoc,
			Method:  http.MethodGet,
			Path:    "/v3/region-from-loc",
			Summary: "Determine Grid Region",
			Description: "Emissions intensity varies by location, specifically the location where an energy-using device is interconnected to the grid. " +
				"This endpoint, provided with latitude and longitude parameters, returns the details of the grid region serving that location, " +
				"if known, or a Coordinates not found error if the point lies outside of known/covered regions.",
			Tags:   []string{TagRegions},
			Scheme: SchemeBearer,
			Sample: pythonSample(regionFromLocSample),
		},
	}
}
