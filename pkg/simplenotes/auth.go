package simplenotes

import "crypto/subtle"

// AdminAuthenticator checks admin passwords against a shared secret.
type AdminAuthenticator struct {
	secret []byte
}

// NewAdminAuthenticator creates an authenticator for secret. An empty secret
// rejects every attempt.
func NewAdminAuthenticator(secret string) *AdminAuthenticator {
	return &AdminAuthenticator{secret: []byte(secret)}
}

// Authenticate reports whether password equals the configured secret
func (a *AdminAuthenticator) Authenticate(password string) bool {
	if a == nil || len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), a.secret) == 1
}
