// Package credentials owns the client's single bearer credential: where it
// is persisted and how it is attached to outgoing requests.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// TokenKey is the metadata key holding the raw access token. Its absence is
// the "logged out" signal on a cold start.
const TokenKey = "access_token"

// TokenTypeKey holds the token_type the server issued the token with.
const TokenTypeKey = "token_type"

// Attacher is the request-attachment capability the store drives on every
// change. *client.Headers implements it.
type Attacher interface {
	AttachBearer(token, tokenType string)
	DetachBearer()
}

// Store persists the current access token and mirrors it onto an Attacher.
//
// Set never fails: a storage error is logged and dropped, because losing the
// persisted copy only degrades the next start to "logged out". The attached
// header is always updated before Set returns.
type Store struct {
	repo     metadata.Repository
	attacher Attacher
	log      logging.Logger
}

func NewStore(repo metadata.Repository, attacher Attacher, log logging.Logger) *Store {
	return &Store{repo: repo, attacher: attacher, log: log.With("component", "credentials")}
}

// Get returns the persisted token and its type. A read error counts as no
// token; a missing type is returned as "".
func (s *Store) Get(ctx context.Context) (token, tokenType string, ok bool) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "credential read failed", "error", err)
		return "", "", false
	}
	if len(v) == 0 {
		return "", "", false
	}

	t, err := s.repo.Get(ctx, TokenTypeKey)
	if err != nil {
		s.log.Warn(ctx, "credential type read failed", "error", err)
	}
	return string(v), string(t), true
}

// Set makes token the current credential, sent with tokenType ("" means
// bearer). An empty token clears it.
func (s *Store) Set(ctx context.Context, token, tokenType string) {
	if token == "" {
		s.attacher.DetachBearer()
		s.delete(ctx, TokenKey)
		s.delete(ctx, TokenTypeKey)
		return
	}

	s.attacher.AttachBearer(token, tokenType)
	if err := s.repo.Set(ctx, TokenKey, []byte(token)); err != nil {
		s.log.Warn(ctx, "credential persist failed", "error", err)
		return
	}
	if tokenType == "" {
		s.delete(ctx, TokenTypeKey)
		return
	}
	if err := s.repo.Set(ctx, TokenTypeKey, []byte(tokenType)); err != nil {
		s.log.Warn(ctx, "credential type persist failed", "error", err)
	}
}

// Clear is Set(ctx, "", "").
func (s *Store) Clear(ctx context.Context) {
	s.Set(ctx, "", "")
}

func (s *Store) delete(ctx context.Context, key string) {
	if err := s.repo.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "credential delete failed", "key", key, "error", err)
	}
}
