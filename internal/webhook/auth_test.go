package webhook

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	auth := NewAuthenticator("s3cret")

	t.Run("matching token passes", func(t *testing.T) {
		h := http.Header{}
		h.Set(AuthHeader, "s3cret")
		require.True(t, auth.Authenticate(h))
	})

	t.Run("wrong token fails", func(t *testing.T) {
		h := http.Header{}
		h.Set(AuthHeader, "nope")
		require.False(t, auth.Authenticate(h))
	})

	t.Run("absent header fails", func(t *testing.T) {
		require.False(t, auth.Authenticate(http.Header{}))
	})

	t.Run("header name is case-insensitive", func(t *testing.T) {
		h := http.Header{}
		h.Set("x-hotmart-hottok", "s3cret")
		require.True(t, auth.Authenticate(h))
	})

	t.Run("absent header never matches an empty secret", func(t *testing.T) {
		empty := NewAuthenticator("")
		require.False(t, empty.Authenticate(http.Header{}))
	})
}
