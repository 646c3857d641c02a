package apihttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"watttime-api/internal/audit"
	"watttime-api/internal/auth"
	"watttime-api/internal/backend"
	"watttime-api/internal/catalog"
	"watttime-api/internal/observability/metrics"
)

// Deps are the collaborators the routes delegate to.
type Deps struct {
	// Backend serves the operations. Nil means backend.Unimplemented.
	Backend backend.Backend
	// TokenSecret enables JWT verification on bearer routes.
	TokenSecret []byte
	// Audit records authenticated calls when set.
	Audit  audit.Logger
	Logger *zap.Logger
}

// Install registers the documented operations on api. Middlewares are added
// first because huma captures them at registration time.
func Install(api huma.API, doc *catalog.Document, deps Deps) error {
	if api == nil {
		return errors.New("apihttp: api is nil")
	}
	if doc == nil {
		return errors.New("apihttp: catalog is nil")
	}
	if deps.Backend == nil {
		deps.Backend = backend.Unimplemented{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	ensureSecuritySchemes(api.OpenAPI())

	api.UseMiddleware(metrics.Middleware)
	api.UseMiddleware(auth.NewMiddleware(deps.TokenSecret, auth.NewDefaultPolicy(nil)).Handler(api))
	if deps.Audit != nil {
		api.UseMiddleware(audit.Middleware(deps.Audit, deps.Logger))
	}

	h := &handlers{backend: deps.Backend, logger: deps.Logger}

	op, err := operation(doc, catalog.OpRegister, http.StatusBadRequest, http.StatusTooManyRequests, http.StatusNotImplemented, http.StatusBadGateway)
	if err != nil {
		return err
	}
	huma.Register(api, op, h.register)

	op, err = operation(doc, catalog.OpLogin, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusNotImplemented, http.StatusBadGateway)
	if err != nil {
		return err
	}
	huma.Register(api, op, h.login)

	op, err = operation(doc, catalog.OpPassword, http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests, http.StatusNotImplemented, http.StatusBadGateway)
	if err != nil {
		return err
	}
	huma.Register(api, op, h.password)

	op, err = operation(doc, catalog.OpRegionFromLoc, http.StatusUnauthorized, http.StatusNotFound, http.StatusNotImplemented, http.StatusBadGateway)
	if err != nil {
		return err
	}
	huma.Register(api, op, h.regionFromLoc)

	return nil
}

func operation(doc *catalog.Document, id string, errs ...int) (huma.Operation, error) {
	spec, ok := doc.Operation(id)
	if !ok {
		return huma.Operation{}, fmt.Errorf("apihttp: operation %q missing from catalog", id)
	}
	op := huma.Operation{
		OperationID: spec.ID,
		Method:      spec.Method,
		Path:        spec.Path,
		Summary:     spec.Summary,
		Description: spec.Description,
		Tags:        spec.Tags,
		Errors:      errs,
		Extensions: map[string]any{
			"x-codeSamples": []catalog.CodeSample{spec.Sample},
		},
	}
	if spec.Scheme != "" {
		op.Security = auth.Requirement(auth.Scheme(spec.Scheme))
	}
	return op, nil
}

func ensureSecuritySchemes(oapi *huma.OpenAPI) {
	if oapi == nil {
		return
	}
	if oapi.Components == nil {
		oapi.Components = &huma.Components{}
	}
	if oapi.Components.SecuritySchemes == nil {
		oapi.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	for name, scheme := range auth.SecuritySchemes() {
		if _, ok := oapi.Components.SecuritySchemes[name]; !ok {
			oapi.Components.SecuritySchemes[name] = scheme
		}
	}
}

type handlers struct {
	backend backend.Backend
	logger  *zap.Logger
}

func (h *handlers) register(ctx context.Context, in *RegisterInput) (*RegisterOutput, error) {
	req := backend.Registration{
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		Org:      in.Org,
	}
	var res backend.Registered
	err := h.call(catalog.OpRegister, func() error {
		var err error
		res, err = h.backend.Register(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &RegisterOutput{Body: RegisterResponse{User: res.User, OK: res.OK}}, nil
}

func (h *handlers) login(ctx context.Context, _ *struct{}) (*LoginOutput, error) {
	creds, ok := auth.CredentialsFromContext(ctx)
	if !ok {
		return nil, huma.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var res backend.Token
	err := h.call(catalog.OpLogin, func() error {
		var err error
		res, err = h.backend.Login(ctx, backend.Credentials{Username: creds.Username, Password: creds.Password})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &LoginOutput{Body: LoginResponse{Token: res.Token}}, nil
}

func (h *handlers) password(ctx context.Context, in *PasswordInput) (*PasswordOutput, error) {
	var res backend.PasswordReset
	err := h.call(catalog.OpPassword, func() error {
		var err error
		res, err = h.backend.ResetPassword(ctx, in.Username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &PasswordOutput{Body: PasswordResponse{OK: res.OK}}, nil
}

func (h *handlers) regionFromLoc(ctx context.Context, in *RegionLocInput) (*RegionLocOutput, error) {
	signal, err := backend.ParseSignalType(in.SignalType)
	if err != nil {
		return nil, toHTTPError(err)
	}
	query := backend.RegionQuery{
		SignalType:  signal,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		BearerToken: auth.BearerFromContext(ctx),
	}
	var res backend.Region
	err = h.call(catalog.OpRegionFromLoc, func() error {
		var err error
		res, err = h.backend.RegionFromLoc(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &RegionLocOutput{Body: RegionLocResponse{
		Abbrev:     res.Abbrev,
		Name:       res.Name,
		SignalType: string(res.SignalType),
	}}, nil
}

// call runs fn, records backend metrics and converts its error.
func (h *handlers) call(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveBackend(operation, result, time.Since(start))
	if err == nil {
		return nil
	}
	if !errors.Is(err, backend.ErrNotImplemented) {
		h.logger.Debug("backend call failed", zap.String("operation", operation), zap.Error(err))
	}
	return toHTTPError(err)
}

func toHTTPError(err error) error {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.Status > 0 {
		return huma.NewError(statusErr.Status, statusErr.Error())
	}
	switch {
	case errors.Is(err, backend.ErrNotImplemented):
		return huma.NewError(http.StatusNotImplemented, "not implemented")
	case errors.Is(err, backend.ErrUnauthorized):
		return huma.NewError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, backend.ErrCoordinatesNotFound):
		return huma.NewError(http.StatusNotFound, "Coordinates not found")
	case errors.Is(err, backend.ErrNotFound):
		return huma.NewError(http.StatusNotFound, "not found")
	case errors.Is(err, backend.ErrInvalidInput):
		return huma.NewError(http.StatusBadRequest, detail(err, backend.ErrInvalidInput))
	case errors.Is(err, backend.ErrUpstream):
		return huma.NewError(http.StatusBadGateway, "upstream unavailable")
	default:
		return huma.NewError(http.StatusInternalServerError, "internal error")
	}
}

// detail strips the sentinel prefix from a wrapped message.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
