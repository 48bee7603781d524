package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestHeaders_AttachDetachBearer(t *testing.T) {
	h := NewHeaders()
	assert.Empty(t, h.Get(AuthorizationHeader))

	h.AttachBearer("abc", "")
	assert.Equal(t, "Bearer abc", h.Get(AuthorizationHeader))

	h.AttachBearer("def", "bearer")
	assert.Equal(t, "Bearer def", h.Get(AuthorizationHeader))

	h.DetachBearer()
	assert.Empty(t, h.Get(AuthorizationHeader))

	h.DetachBearer()
	assert.Empty(t, h.Get(AuthorizationHeader))
}

func TestHeaders_AttachBearerCanonicalizesTokenType(t *testing.T) {
	tests := []struct {
		tokenType string
		want      string
	}{
		{"", "Bearer tok"},
		{"bearer", "Bearer tok"},
		{"BEARER", "Bearer tok"},
		{"mac", "MAC tok"},
		{"basic", "Basic tok"},
		{"DPoP", "DPoP tok"},
	}
	for _, tt := range tests {
		t.Run(tt.tokenType, func(t *testing.T) {
			h := NewHeaders()
			h.AttachBearer("tok", tt.tokenType)
			assert.Equal(t, tt.want, h.Get(AuthorizationHeader))
		})
	}
}

func TestHeaders_CloneIsIndependent(t *testing.T) {
	h := NewHeaders()
	h.Set("X-Test", "1")

	c := h.Clone()
	c.Set("X-Test", "2")

	assert.Equal(t, "1", h.Get("X-Test"))
}

func TestHeaderTransport_AppliesSharedHeaders(t *testing.T) {
	h := NewHeaders()
	h.AttachBearer("tok", "Bearer")

	var seen *http.Request
	tr := newHeaderTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return httptest.NewRecorder().Result(), nil
	}), h)
	tr.newID = func() string { return "req-1" }

	req := httptest.NewRequest(http.MethodGet, "http://api.local/auth/me", nil)
	_, err := tr.RoundTrip(req)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, "Bearer tok", seen.Header.Get(AuthorizationHeader))
	assert.Equal(t, "req-1", seen.Header.Get(RequestIDHeader))
	assert.Empty(t, req.Header.Get(AuthorizationHeader), "caller request must not be mutated")
}

func TestHeaderTransport_KeepsCallerRequestID(t *testing.T) {
	tr := newHeaderTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "mine", r.Header.Get(RequestIDHeader))
		return httptest.NewRecorder().Result(), nil
	}), NewHeaders())

	req := httptest.NewRequest(http.MethodGet, "http://api.local/", nil)
	req.Header.Set(RequestIDHeader, "mine")
	_, err := tr.RoundTrip(req)
	require.NoError(t, err)
}
