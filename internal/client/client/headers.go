package client

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

// Headers is the header set attached to every outgoing API request. It is
// shared between the transport and whoever owns the credential; writes are
// visible to the very next request.
type Headers struct {
	mu sync.RWMutex
	h  http.Header
}

func NewHeaders() *Headers {
	return &Headers{h: http.Header{}}
}

// AttachBearer makes every following request carry "Authorization: <type> <token>".
// tokenType is the server's token_type, canonicalized ("bearer" is sent as
// "Bearer"); empty means Bearer.
func (h *Headers) AttachBearer(token, tokenType string) {
	t := oauth2.Token{AccessToken: token, TokenType: tokenType}
	h.Set(AuthorizationHeader, t.Type()+" "+t.AccessToken)
}

// DetachBearer removes the Authorization header.
func (h *Headers) DetachBearer() {
	h.Del(AuthorizationHeader)
}

func (h *Headers) Set(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Set(key, value)
}

func (h *Headers) Del(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Del(key)
}

func (h *Headers) Get(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Get(key)
}

// Clone returns a copy safe to mutate.
func (h *Headers) Clone() http.Header {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Clone()
}

// headerTransport applies the shared Headers and a fresh request ID to each
// request before handing it to base.
type headerTransport struct {
	base    http.RoundTripper
	headers *Headers
	newID   func() string
}

func newHeaderTransport(base http.RoundTripper, headers *Headers) *headerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &headerTransport{base: base, headers: headers, newID: uuid.NewString}
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers.Clone() {
		r.Header[k] = v
	}
	if r.Header.Get(RequestIDHeader) == "" {
		r.Header.Set(RequestIDHeader, t.newID())
	}
	return t.base.RoundTrip(r)
}
