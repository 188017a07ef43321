package authn_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitdesk/orbitdesk/internal/auth"
	"github.com/orbitdesk/orbitdesk/internal/db/models"
	"github.com/orbitdesk/orbitdesk/internal/rbac"
	"github.com/orbitdesk/orbitdesk/internal/web/middleware/authn"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	sessions   map[string]*auth.SessionRecord
	users      map[uint64]*auth.User
	sessionErr error
	userErr    error
	deleted    []string
	userCalls  int
}

func (b *fakeBackend) FindSession(_ context.Context, _ uint64, sessionID string) (*auth.SessionRecord, error) {
	if b.sessionErr != nil {
		return nil, b.sessionErr
	}

	return b.sessions[sessionID], nil
}

func (b *fakeBackend) FindUser(_ context.Context, id uint64) (*auth.User, error) {
	b.userCalls++

	if b.userErr != nil {
		return nil, b.userErr
	}

	return b.users[id], nil
}

func (b *fakeBackend) DeleteSession(_ context.Context, sessionID string) error {
	b.deleted = append(b.deleted, sessionID)
	return nil
}

type fakeTokens map[string]*auth.Claims

func (f fakeTokens) Verify(token string) (*auth.Claims, error) {
	switch token {
	case "expired":
		return nil, auth.NewError(auth.KindTokenExpired, "token expired")
	case "plain-error":
		return nil, errors.New("boom")
	}

	if c, ok := f[token]; ok {
		return c, nil
	}

	return nil, auth.NewError(auth.KindInvalidToken, "invalid token")
}

func newBackend() *fakeBackend {
	role := &rbac.RoleWithPermissions{ID: 1, Name: rbac.RoleUser, Scope: rbac.ScopeGlobal}

	return &fakeBackend{
		sessions: map[string]*auth.SessionRecord{
			"s-live":      {ID: "s-live", ExpiresAt: now.Add(time.Hour)},
			"s-boundary":  {ID: "s-boundary", ExpiresAt: now},
			"s-suspended": {ID: "s-suspended", ExpiresAt: now.Add(time.Hour)},
			"s-inactive":  {ID: "s-inactive", ExpiresAt: now.Add(time.Hour)},
			"s-ghost":     {ID: "s-ghost", ExpiresAt: now.Add(time.Hour)},
		},
		users: map[uint64]*auth.User{
			1: {ID: 1, Username: "alice", Status: models.UserStatusActive, Role: role},
			2: {ID: 2, Username: "bob", Status: models.UserStatusSuspended, Role: role},
			3: {ID: 3, Username: "carol", Status: models.UserStatusInactive, Role: role},
		},
	}
}

var tokens = fakeTokens{ //nolint:gochecknoglobals
	"live":      {UserID: 1, SessionID: "s-live"},
	"boundary":  {UserID: 1, SessionID: "s-boundary"},
	"gone":      {UserID: 1, SessionID: "s-gone"},
	"suspended": {UserID: 2, SessionID: "s-suspended"},
	"inactive":  {UserID: 3, SessionID: "s-inactive"},
	"ghost":     {UserID: 4, SessionID: "s-ghost"},
}

type result struct {
	status  int
	kind    string
	message string
	cookie  string
	user    string
}

func serve(t *testing.T, backend *fakeBackend, build func(*http.Request)) result {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var ae *auth.Error
			require.ErrorAs(t, err, &ae)

			return c.Status(ae.Status()).JSON(fiber.Map{"error": ae.Kind, "message": ae.Message})
		},
	})
	app.Get("/",
		authn.New(authn.Config{Backend: backend, Tokens: tokens, Now: func() time.Time { return now }}),
		func(c *fiber.Ctx) error {
			return c.SendString(authn.User(c).Username + "/" + authn.SessionID(c))
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	build(req)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	out := result{status: resp.StatusCode, cookie: resp.Header.Get(fiber.HeaderSetCookie)}

	if resp.StatusCode >= http.StatusBadRequest {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		out.kind, out.message = body.Error, body.Message
	} else {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		out.user = string(raw)
	}

	return out
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		status  int
		kind    auth.Kind
		message string
	}{
		{name: "missing", token: "", status: http.StatusUnauthorized, kind: auth.KindUnauthorized},
		{name: "invalid", token: "nonsense", status: http.StatusUnauthorized, kind: auth.KindInvalidToken},
		{name: "expired token", token: "expired", status: http.StatusUnauthorized, kind: auth.KindTokenExpired},
		{name: "unclassified verifier error", token: "plain-error", status: http.StatusUnauthorized, kind: auth.KindUnauthorized},
		{name: "session gone", token: "gone", status: http.StatusUnauthorized, kind: auth.KindSessionExpired},
		{name: "session expires now", token: "boundary", status: http.StatusUnauthorized, kind: auth.KindSessionExpired},
		{name: "user gone", token: "ghost", status: http.StatusUnauthorized, kind: auth.KindUnauthorized},
		{name: "suspended", token: "suspended", status: http.StatusForbidden, kind: auth.KindForbidden,
			message: "account suspended"},
		{name: "inactive", token: "inactive", status: http.StatusForbidden, kind: auth.KindForbidden,
			message: "account inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := serve(t, newBackend(), func(req *http.Request) {
				if tt.token != "" {
					bearer(tt.token)(req)
				}
			})

			assert.Equal(t, tt.status, r.status)
			assert.Equal(t, string(tt.kind), r.kind)

			if tt.message != "" {
				assert.Equal(t, tt.message, r.message)
			}
		})
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	r := serve(t, newBackend(), bearer("live"))
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "alice/s-live", r.user)

	r = serve(t, newBackend(), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: authn.DefaultCookieName, Value: "live"})
	})
	assert.Equal(t, http.StatusOK, r.status)

	// the header wins over the cookie
	r = serve(t, newBackend(), func(req *http.Request) {
		bearer("live")(req)
		req.AddCookie(&http.Cookie{Name: authn.DefaultCookieName, Value: "nonsense"})
	})
	assert.Equal(t, http.StatusOK, r.status)
}

func TestDisabledAccountsAreLoggedOut(t *testing.T) {
	for _, token := range []string{"suspended", "inactive"} {
		t.Run(token, func(t *testing.T) {
			backend := newBackend()

			r := serve(t, backend, bearer(token))
			assert.Equal(t, http.StatusForbidden, r.status)
			assert.Equal(t, []string{"s-" + token}, backend.deleted)
			assert.Contains(t, r.cookie, authn.DefaultCookieName+"=")
		})
	}
}

func TestBackendFailures(t *testing.T) {
	backend := newBackend()
	backend.sessionErr = errors.New("db down")

	r := serve(t, backend, bearer("live"))
	assert.Equal(t, http.StatusInternalServerError, r.status)
	assert.Equal(t, string(auth.KindInternal), r.kind)
	assert.Zero(t, backend.userCalls)

	backend = newBackend()
	backend.userErr = errors.New("db down")

	r = serve(t, backend, bearer("live"))
	assert.Equal(t, http.StatusInternalServerError, r.status)
	assert.Empty(t, backend.deleted)
}

func TestNewRequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() { authn.New(authn.Config{Tokens: tokens}) })
	assert.Panics(t, func() { authn.New(authn.Config{Backend: newBackend()}) })
}
