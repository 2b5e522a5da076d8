package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(svc AuthService) *AuthHandler {
	return NewAuthHandler(AuthHandlerConfig{
		AuthService: svc,
		Cookies:     NewCookies(CookieConfig{MaxAge: 24 * time.Hour}),
	})
}

func validRegisterBody() map[string]string {
	return map[string]string{
		"username":        "alice_w",
		"name":            "Alice",
		"email":           "alice@example.com",
		"password":        "Secret123",
		"confirmPassword": "Secret123",
	}
}

// ============================================================================
// Register Tests
// ============================================================================

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	var got service.RegisterRequest
	h := newTestAuthHandler(&mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error) {
			got = req
			return &service.AuthResult{User: newTestUser(), Tokens: newTestTokenPair()}, nil
		},
	})

	rr := httptest.NewRecorder()
	h.Register(rr, makeJSONRequest(http.MethodPost, "/register", validRegisterBody()))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "alice_w", got.Username)
	assert.Equal(t, "Secret123", got.Password)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["auth"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice_w", user["username"])
	assert.NotContains(t, rr.Body.String(), "secret")

	access := cookieByName(rr, "accessToken")
	refresh := cookieByName(rr, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Equal(t, "test-access-token", access.Value)
	assert.Equal(t, "test-refresh-token", refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, 86400, access.MaxAge)
	assert.Equal(t, "/", refresh.Path)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(b map[string]string)
		field  string
	}{
		{"short username", func(b map[string]string) { b["username"] = "abc" }, "username"},
		{"long username", func(b map[string]string) { b["username"] = strings.Repeat("a", 31) }, "username"},
		{"missing name", func(b map[string]string) { delete(b, "name") }, "name"},
		{"long name", func(b map[string]string) { b["name"] = strings.Repeat("n", 31) }, "name"},
		{"bad email", func(b map[string]string) { b["email"] = "not-an-email" }, "email"},
		{"weak password", func(b map[string]string) { b["password"] = "alllower1"; b["confirmPassword"] = "alllower1" }, "password"},
		{"symbol in password", func(b map[string]string) { b["password"] = "Secret12!"; b["confirmPassword"] = "Secret12!" }, "password"},
		{"short password", func(b map[string]string) { b["password"] = "Se1"; b["confirmPassword"] = "Se1" }, "password"},
		{"long password", func(b map[string]string) {
			p := "Aa1" + strings.Repeat("x", 23)
			b["password"] = p
			b["confirmPassword"] = p
		}, "password"},
		{"mismatched confirmation", func(b map[string]string) { b["confirmPassword"] = "Secret124" }, "confirmPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			called := false
			h := newTestAuthHandler(&mockAuthService{
				registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error) {
					called = true
					return nil, nil
				},
			})

			body := validRegisterBody()
			tt.modify(body)
			rr := httptest.NewRecorder()
			h.Register(rr, makeJSONRequest(http.MethodPost, "/register", body))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.False(t, called)

			problem := parseErrorResponse(t, rr.Body.Bytes())
			fields := make([]string, 0, len(problem.Errors))
			for _, fe := range problem.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(&mockAuthService{})

	for _, raw := range []string{"{", `{"unknown":"field"}`, `{"username":"alice_w"} {}`} {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(raw))
		rr := httptest.NewRecorder()
		h.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, raw)
	}
}

func TestRegister_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"email in use", service.ErrEmailAlreadyExists, http.StatusConflict},
		{"username taken", service.ErrUsernameTaken, http.StatusConflict},
		{"persistence", fmt.Errorf("%w: db down", service.ErrPersistence), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestAuthHandler(&mockAuthService{
				registerFunc: func(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error) {
					return nil, tt.err
				},
			})

			rr := httptest.NewRecorder()
			h.Register(rr, makeJSONRequest(http.MethodPost, "/register", validRegisterBody()))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Nil(t, cookieByName(rr, "accessToken"))
			assert.NotContains(t, rr.Body.String(), "db down")
		})
	}
}

// ============================================================================
// Login Tests
// ============================================================================

func TestLogin(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(&mockAuthService{
		loginFunc: func(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error) {
			if req.Username == "alice_w" && req.Password == "Secret123" {
				return &service.AuthResult{User: newTestUser(), Tokens: newTestTokenPair()}, nil
			}
			return nil, service.ErrInvalidCredentials
		},
	})

	rr := httptest.NewRecorder()
	h.Login(rr, makeJSONRequest(http.MethodPost, "/login", map[string]string{"username": "alice_w", "password": "Secret123"}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, cookieByName(rr, "refreshToken"))

	rr = httptest.NewRecorder()
	h.Login(rr, makeJSONRequest(http.MethodPost, "/login", map[string]string{"username": "alice_w", "password": "Wrong1234"}))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	problem := parseErrorResponse(t, rr.Body.Bytes())
	assert.Equal(t, model.ErrCodeLoginFailed, problem.Code)
	assert.Equal(t, service.ErrInvalidCredentials.Error(), problem.Detail)

	rr = httptest.NewRecorder()
	h.Login(rr, makeJSONRequest(http.MethodPost, "/login", map[string]string{"username": "al", "password": "Secret123"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ============================================================================
// Logout Tests
// ============================================================================

func TestLogout(t *testing.T) {
	t.Parallel()

	var revoked string
	h := newTestAuthHandler(&mockAuthService{
		logoutFunc: func(ctx context.Context, refreshToken string) error {
			revoked = refreshToken
			return nil
		},
	})

	req := withUserContext(httptest.NewRequest(http.MethodPost, "/logout", nil), "user:abc123")
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "literal-token"})
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "literal-token", revoked)
	assert.JSONEq(t, `{"user":null,"auth":false}`, rr.Body.String())

	for _, name := range []string{"accessToken", "refreshToken"} {
		c := cookieByName(rr, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestLogout_PersistenceError(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(&mockAuthService{
		logoutFunc: func(ctx context.Context, refreshToken string) error {
			return fmt.Errorf("%w: down", service.ErrPersistence)
		},
	})

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// ============================================================================
// Refresh Tests
// ============================================================================

func TestRefresh(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(&mockAuthService{
		refreshFunc: func(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
			if refreshToken != "live-token" {
				return nil, service.ErrUnauthorized
			}
			pair := newTestTokenPair()
			pair.RefreshToken = "rotated-token"
			return &service.AuthResult{User: newTestUser(), Tokens: pair}, nil
		},
	})

	t.Run("rotates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "live-token"})
		rr := httptest.NewRecorder()
		h.Refresh(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "rotated-token", cookieByName(rr, "refreshToken").Value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Refresh(rr, httptest.NewRequest(http.MethodGet, "/refresh", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("superseded token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-token"})
		rr := httptest.NewRecorder()
		h.Refresh(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Unauthorized", parseErrorResponse(t, rr.Body.Bytes()).Detail)
		assert.Nil(t, cookieByName(rr, "refreshToken"))
	})
}

// ============================================================================
// Me Tests
// ============================================================================

func TestMe(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(&mockAuthService{
		getUserByIDFunc: func(ctx context.Context, userID string) (*model.User, error) {
			if userID == "user:abc123" {
				return newTestUser(), nil
			}
			return nil, service.ErrUserNotFound
		},
	})

	rr := httptest.NewRecorder()
	h.Me(rr, withUserContext(httptest.NewRequest(http.MethodGet, "/me", nil), "user:abc123"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"alice_w"`)

	rr = httptest.NewRecorder()
	h.Me(rr, withUserContext(httptest.NewRequest(http.MethodGet, "/me", nil), "user:gone"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// ============================================================================
// Cookie Tests
// ============================================================================

func TestCookies_SameSite(t *testing.T) {
	t.Parallel()

	tests := map[string]http.SameSite{
		"strict": http.SameSiteStrictMode,
		"None":   http.SameSiteNoneMode,
		"lax":    http.SameSiteLaxMode,
		"":       http.SameSiteLaxMode,
	}
	for mode, want := range tests {
		c := NewCookies(CookieConfig{SameSite: mode, Secure: true})
		rr := httptest.NewRecorder()
		c.SetSession(rr, newTestTokenPair())

		access := cookieByName(rr, "accessToken")
		require.NotNil(t, access)
		assert.Equal(t, want, access.SameSite, mode)
		assert.True(t, access.Secure)
		assert.Equal(t, 86400, access.MaxAge, "default max age is 24h")
	}
}
