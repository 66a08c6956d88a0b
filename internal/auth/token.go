// Package auth verifies the session tokens issued by the external session
// provider and exposes the resolved session to request handlers.
package auth

import (
	"net/http"
	"strings"
)

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the named session cookie. It returns "" when neither is present.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookieName == "" {
		return ""
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
