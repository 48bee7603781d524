package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

var _ Client = (*HTTPClient)(nil)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// classifier maps a non-2xx, non-5xx status and its detail to a sentinel.
type classifier func(status int, detail string) error

// HTTPClient implements Client over the JSON HTTP API rooted at baseURL.
// Every request goes through the shared Headers, so a credential attached
// there is sent without being passed to any method.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for baseURL. A zero timeout leaves requests
// unbounded.
func NewHTTPClient(baseURL string, headers *Headers, timeout time.Duration, log logging.Logger) *HTTPClient {
	if headers == nil {
		headers = NewHeaders()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: newHeaderTransport(nil, headers),
		},
		log:     log.With("component", "identity-client"),
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.AuthToken, error) {
	req := models.LoginCredentials{Username: username, Password: password}

	var tok models.AuthToken
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &tok, classifyLogin); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, &APIError{Kind: ErrServer, Status: http.StatusOK, Err: fmt.Errorf("login response has no access_token")}
	}
	return &tok, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	req := models.Registration{Username: username, Email: email, Password: password}

	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user, classifyRegister); err != nil {
		return nil, err
	}
	if !user.Complete() {
		return nil, &APIError{Kind: ErrServer, Status: http.StatusCreated, Err: fmt.Errorf("incomplete user record")}
	}
	return &user, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user, classifyCurrentUser); err != nil {
		return nil, err
	}
	if !user.Complete() {
		return nil, &APIError{Kind: ErrServer, Status: http.StatusOK, Err: fmt.Errorf("incomplete user record")}
	}
	return &user, nil
}

// RequestPasswordReset succeeds the same way whether or not the address is
// known to the server.
func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/request-password-reset", body, nil, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil, classifyResetPassword)
}

func (c *HTTPClient) RequestEmailVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/request-email-verification", body, nil, nil)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/verify-email/"+url.PathEscape(token), nil, nil, classifyVerifyEmail)
}

// do sends one request and decodes a 2xx body into out (when out != nil).
// Transport failures become ErrUnreachable, 5xx and undecodable bodies
// ErrServer, anything else whatever classify says.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, classify classifier) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "api request failed", "method", method, "path", path, "error", err)
		return &APIError{Kind: ErrUnreachable, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &APIError{Kind: ErrUnreachable, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Kind: ErrServer, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	detail := extractDetail(data)
	kind := ErrServer
	if resp.StatusCode < 500 && classify != nil {
		kind = classify(resp.StatusCode, detail)
	}
	return &APIError{Kind: kind, Status: resp.StatusCode, Detail: detail}
}

func classifyLogin(status int, _ string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return ErrInvalidCredentials
	}
	return ErrServer
}

func classifyRegister(status int, detail string) error {
	switch status {
	case http.StatusConflict:
		return ErrDuplicateAccount
	case http.StatusBadRequest:
		d := strings.ToLower(detail)
		if strings.Contains(d, "already registered") || strings.Contains(d, "already exists") {
			return ErrDuplicateAccount
		}
		return ErrValidation
	case http.StatusUnprocessableEntity:
		return ErrValidation
	}
	return ErrServer
}

func classifyCurrentUser(status int, _ string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return ErrUnauthenticated
	}
	return ErrServer
}

func classifyResetPassword(status int, _ string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return ErrInvalidOrExpiredToken
	case http.StatusUnprocessableEntity:
		return ErrWeakPassword
	}
	return ErrServer
}

func classifyVerifyEmail(status int, _ string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return ErrInvalidOrExpiredToken
	}
	return ErrServer
}

// errorBody covers both {"detail": "..."} and the validation form
// {"detail": [{"loc": [...], "msg": "..."}]}, plus a bare {"message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func extractDetail(data []byte) string {
	var b errorBody
	if err := json.Unmarshal(data, &b); err != nil {
		return ""
	}

	if len(b.Detail) > 0 {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil && s != "" {
			return s
		}

		var items []validationItem
		if err := json.Unmarshal(b.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg == "" {
					continue
				}
				if len(it.Loc) > 0 {
					msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
				} else {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	return b.Message
}
