package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminMiddleware lets a request through only when it carries token, either
// as "Authorization: Bearer <token>" or as the basic-auth password. With an
// empty token the wrapped endpoints are disabled.
func AdminMiddleware(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if !validToken(r, token) {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validToken(r *http.Request, token string) bool {
	var given string
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		given = strings.TrimPrefix(auth, "Bearer ")
	} else if _, password, ok := r.BasicAuth(); ok {
		given = password
	}
	if given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(token)) == 1
}
