package simplenotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminAuthenticator(t *testing.T) {
	auth := NewAdminAuthenticator("s3cret")

	assert.True(t, auth.Authenticate("s3cret"))
	assert.False(t, auth.Authenticate("s3cret "))
	assert.False(t, auth.Authenticate("S3CRET"))
	assert.False(t, auth.Authenticate(""))
}

func TestAdminAuthenticator_EmptySecret(t *testing.T) {
	auth := NewAdminAuthenticator("")

	assert.False(t, auth.Authenticate(""))
	assert.False(t, auth.Authenticate("anything"))

	var nilAuth *AdminAuthenticator
	assert.False(t, nilAuth.Authenticate(""))
}
