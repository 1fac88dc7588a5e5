package webhook

import (
	"crypto/subtle"
	"net/http"
)

// AuthHeader is the shared-secret header Hotmart attaches to every webhook
// delivery.
const AuthHeader = "X-Hotmart-Hottok"

// Authenticator is the sole trust boundary of the pipeline: every component
// downstream of it assumes the request already passed.
type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) Authenticator {
	return Authenticator{secret: secret}
}

// Authenticate reports whether the request carries the configured secret.
// An absent header always fails, even when the configured secret is empty —
// a missing value must never match an equally-empty configuration.
func (a Authenticator) Authenticate(header http.Header) bool {
	values, ok := header[http.CanonicalHeaderKey(AuthHeader)]
	if !ok || len(values) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(values[0]), []byte(a.secret)) == 1
}
