package auth

import "github.com/danielgtaylor/huma/v2"

// Scheme names a security scheme declared in the OpenAPI components.
type Scheme string

const (
	SchemeBearer Scheme = "bearerAuth"
	SchemeBasic  Scheme = "basicAuth"
)

// Requirement builds an operation security requirement for scheme.
func Requirement(scheme Scheme) []map[string][]string {
	return []map[string][]string{{string(scheme): {}}}
}

// SecuritySchemes returns the component definitions for every scheme.
func SecuritySchemes() map[string]*huma.SecurityScheme {
	return map[string]*huma.SecurityScheme{
		string(SchemeBearer): {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "Access token obtained from /login, sent as `Authorization: Bearer <your_token>`.",
		},
		string(SchemeBasic): {
			Type:        "http",
			Scheme:      "basic",
			Description: "Registered username and password.",
		},
	}
}

// Policy determines the scheme an operation requires.
type Policy struct {
	ExemptOperations map[string]struct{}
}

// NewDefaultPolicy builds a policy with exempted operation ids.
func NewDefaultPolicy(exemptOperations []string) Policy {
	set := make(map[string]struct{}, len(exemptOperations))
	for _, id := range exemptOperations {
		set[id] = struct{}{}
	}
	return Policy{ExemptOperations: set}
}

// RequiredScheme resolves the scheme declared on op, bearer taking precedence.
func (p Policy) RequiredScheme(op *huma.Operation) (Scheme, bool) {
	if op == nil {
		return "", false
	}
	if _, ok := p.ExemptOperations[op.OperationID]; ok {
		return "", false
	}
	var found Scheme
	for _, requirement := range op.Security {
		if _, ok := requirement[string(SchemeBearer)]; ok {
			return SchemeBearer, true
		}
		if _, ok := requirement[string(SchemeBasic)]; ok {
			found = SchemeBasic
		}
	}
	return found, found != ""
}
