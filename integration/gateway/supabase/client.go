package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/localkaam/localkaam/core/authflow"
	"github.com/localkaam/localkaam/core/logger"
	"github.com/localkaam/localkaam/core/profile"
)

const eventBufferSize = 16

var _ authflow.Gateway = (*Client)(nil)

// Client implements authflow.Gateway against a GoTrue-compatible hosted auth
// service. It persists the token pair through a TokenStore, refreshes the
// access token lazily when it is about to expire, and pushes auth state
// changes on the Events channel.
type Client struct {
	baseURL       string
	anonKey       string
	refreshMargin time.Duration
	httpClient    *http.Client
	tokens        TokenStore
	log           *slog.Logger
	now           func() time.Time

	// refreshMu serializes refreshes so concurrent CurrentSession calls do
	// not burn the single-use refresh token twice.
	refreshMu sync.Mutex

	events    chan authflow.Event
	closeOnce sync.Once
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for auth service requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTokenStore replaces the default in-memory token store.
func WithTokenStore(s TokenStore) Option {
	return func(cl *Client) {
		if s != nil {
			cl.tokens = s
		}
	}
}

// WithLogger configures structured logging for the client.
func WithLogger(log *slog.Logger) Option {
	return func(cl *Client) {
		if log != nil {
			cl.log = log
		}
	}
}

// New creates a gateway client for the given auth service.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	if cfg.AnonKey == "" {
		return nil, ErrEmptyAnonKey
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	margin := cfg.RefreshMargin
	if margin <= 0 {
		margin = 30 * time.Second
	}

	c := &Client{
		baseURL:       strings.TrimRight(cfg.URL, "/"),
		anonKey:       cfg.AnonKey,
		refreshMargin: margin,
		httpClient:    &http.Client{Timeout: timeout},
		tokens:        NewMemoryTokenStore(),
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
		events:        make(chan authflow.Event, eventBufferSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Events returns the auth state change channel. Closed by Close.
func (c *Client) Events() <-chan authflow.Event {
	return c.events
}

// Close shuts the event channel down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// CurrentSession resolves the persisted token pair into a session, refreshing
// the access token first when it is expired or about to expire. Returns
// (nil, nil) when no tokens are stored.
func (c *Client) CurrentSession(ctx context.Context) (*authflow.Session, error) {
	tokens, err := c.tokens.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	if tokens.IsZero() {
		return nil, nil
	}

	if c.now().After(tokens.ExpiresAt.Add(-c.refreshMargin)) {
		tokens, err = c.refresh(ctx, tokens)
		if err != nil {
			// A dead refresh token means the session is gone, not broken.
			c.log.WarnContext(ctx, "token refresh failed, clearing session", logger.Error(err))
			if clearErr := c.tokens.Clear(ctx); clearErr != nil {
				c.log.WarnContext(ctx, "failed to clear tokens", logger.Error(clearErr))
			}
			return nil, nil
		}
	}

	return sessionFromToken(tokens.AccessToken)
}

// SignInWithPassword exchanges credentials for a token pair and persists it.
// No SIGNED_IN event is emitted: the caller consumes the returned session
// synchronously, and an event would reconcile the same sign-in a second time.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*authflow.Session, error) {
	var resp tokenResponse
	err := c.post(ctx, "/auth/v1/token?grant_type=password", map[string]any{
		"email":    email,
		"password": password,
	}, "", &resp)
	if err != nil {
		return nil, err
	}

	tokens := resp.toTokens(c.now())
	if err := c.tokens.Save(ctx, tokens); err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	return sessionFromToken(tokens.AccessToken)
}

// SignInWithOAuth builds the provider authorization URL. No request is made;
// the flow completes when the provider redirects back and the resulting
// session is observed through CurrentSession or the event channel.
func (c *Client) SignInWithOAuth(_ context.Context, params authflow.OAuthParams) (string, error) {
	if params.Provider == "" {
		return "", errors.Join(ErrRequestFailed, errors.New("provider is required"))
	}

	q := url.Values{}
	q.Set("provider", params.Provider)
	if params.RedirectTo != "" {
		q.Set("redirect_to", params.RedirectTo)
	}
	for k, v := range params.QueryParams {
		q.Set(k, v)
	}

	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

// SignUp registers a new account with the role carried in signup metadata.
// No session is established; the caller signs in separately.
func (c *Client) SignUp(ctx context.Context, email, password string, meta authflow.SignUpMetadata) (uuid.UUID, error) {
	var resp signUpResponse
	err := c.post(ctx, "/auth/v1/signup", map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]any{
			"role": meta.Role,
		},
	}, "", &resp)
	if err != nil {
		return uuid.Nil, err
	}

	id := resp.ID
	if id == "" && resp.User != nil {
		id = resp.User.ID
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.Join(ErrRequestFailed, fmt.Errorf("unparseable user id %q", id))
	}
	return userID, nil
}

// SignOut revokes the remote session, clears the persisted tokens, and emits
// a SIGNED_OUT event. Signing out without a stored session is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	tokens, err := c.tokens.Load(ctx)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	if tokens.IsZero() {
		return nil
	}

	if err := c.post(ctx, "/auth/v1/logout", nil, tokens.AccessToken, nil); err != nil {
		return err
	}

	if err := c.tokens.Clear(ctx); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	c.emit(authflow.Event{Type: authflow.EventSignedOut})
	return nil
}

// AutoRefresh keeps the access token fresh in the background, emitting a
// TOKEN_REFRESHED event after each successful refresh. It blocks until ctx
// is cancelled and is meant to run in its own goroutine.
func (c *Client) AutoRefresh(ctx context.Context) {
	const idlePoll = 30 * time.Second

	timer := time.NewTimer(idlePoll)
	defer timer.Stop()

	for {
		wait := idlePoll
		if tokens, err := c.tokens.Load(ctx); err == nil && !tokens.IsZero() {
			wait = tokens.ExpiresAt.Add(-c.refreshMargin).Sub(c.now())
			if wait < time.Second {
				wait = time.Second
			}
		}

		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		tokens, err := c.tokens.Load(ctx)
		if err != nil || tokens.IsZero() {
			continue
		}
		if c.now().Before(tokens.ExpiresAt.Add(-c.refreshMargin)) {
			continue
		}

		refreshed, err := c.refresh(ctx, tokens)
		if err != nil {
			c.log.WarnContext(ctx, "background token refresh failed", logger.Error(err))
			continue
		}

		sess, err := sessionFromToken(refreshed.AccessToken)
		if err != nil {
			c.log.WarnContext(ctx, "refreshed token is unreadable", logger.Error(err))
			continue
		}
		c.emit(authflow.Event{Type: authflow.EventTokenRefreshed, Session: sess})
	}
}

// refresh exchanges the refresh token for a new pair and persists it. The
// stored tokens are re-checked under the lock since a concurrent caller may
// have refreshed already.
func (c *Client) refresh(ctx context.Context, stale Tokens) (Tokens, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.tokens.Load(ctx)
	if err != nil {
		return Tokens{}, errors.Join(ErrRequestFailed, err)
	}
	if current.AccessToken != stale.AccessToken && !current.IsZero() {
		return current, nil
	}
	if current.RefreshToken == "" {
		return Tokens{}, ErrNoRefreshToken
	}

	var resp tokenResponse
	err = c.post(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]any{
		"refresh_token": current.RefreshToken,
	}, "", &resp)
	if err != nil {
		return Tokens{}, err
	}

	tokens := resp.toTokens(c.now())
	if err := c.tokens.Save(ctx, tokens); err != nil {
		return Tokens{}, errors.Join(ErrRequestFailed, err)
	}
	return tokens, nil
}

func (c *Client) emit(ev authflow.Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("auth event dropped, event buffer full", logger.Event(string(ev.Type)))
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (r tokenResponse) toTokens(now time.Time) Tokens {
	return Tokens{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(r.ExpiresIn) * time.Second),
	}
}

type signUpResponse struct {
	ID   string `json:"id"`
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (r errorResponse) text() string {
	for _, s := range []string{r.ErrorDescription, r.Msg, r.Message, r.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// post issues an authenticated JSON request and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body any, bearer string, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return classifyError(resp.StatusCode, apiErr.text())
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	return nil
}

// classifyError maps service error payloads onto sentinel errors so callers
// can branch without string matching.
func classifyError(status int, message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		return errors.Join(ErrInvalidCredentials, errors.New(message))
	case strings.Contains(lower, "already registered"), strings.Contains(lower, "already been registered"):
		return errors.Join(ErrEmailTaken, errors.New(message))
	}

	if message == "" {
		message = http.StatusText(status)
	}
	return errors.Join(ErrRequestFailed, fmt.Errorf("status %d: %s", status, message))
}

// sessionFromToken builds a session from the access token claims. The token
// signature is the service's to verify, not this client's; parsing here only
// extracts identity the service already asserted over TLS.
func sessionFromToken(accessToken string) (*authflow.Session, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, fmt.Errorf("unparseable subject %q", claims.Subject))
	}

	return &authflow.Session{
		UserID:      userID,
		Email:       claims.Email,
		FullName:    claims.UserMetadata.FullName,
		AvatarURL:   claims.UserMetadata.AvatarURL,
		Role:        profile.Role(claims.UserMetadata.Role),
		AccessToken: accessToken,
	}, nil
}

type accessClaims struct {
	jwt.RegisteredClaims

	Email        string `json:"email"`
	UserMetadata struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
		Role      string `json:"role"`
	} `json:"user_metadata"`
}
