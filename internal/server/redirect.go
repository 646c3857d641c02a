package server

import (
	"net/http"
	"strings"
)

// redirectSlashes answers a documented path requested with a trailing slash
// with 307 to the canonical path, keeping method, body and query.
func redirectSlashes(next http.Handler, paths []string) http.Handler {
	canonical := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		canonical[p] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
			trimmed := strings.TrimRight(r.URL.Path, "/")
			if _, ok := canonical[trimmed]; ok {
				target := trimmed
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
