package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/quill/api/internal/middleware"
	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/service"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock Services
// ============================================================================

type mockAuthService struct {
	registerFunc    func(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error)
	loginFunc       func(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error)
	logoutFunc      func(ctx context.Context, refreshToken string) error
	refreshFunc     func(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	getUserByIDFunc func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, refreshToken)
	}
	return nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, nil
}

func (m *mockAuthService) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, userID)
	}
	return nil, nil
}

type mockBlogService struct {
	createFunc    func(ctx context.Context, callerID string, req service.CreateBlogRequest) (*model.Blog, error)
	listFunc      func(ctx context.Context) ([]*model.Blog, error)
	getDetailFunc func(ctx context.Context, id string) (*model.BlogDetail, error)
	updateFunc    func(ctx context.Context, callerID string, req service.UpdateBlogRequest) (*model.Blog, error)
	deleteFunc    func(ctx context.Context, callerID, id string) error
}

func (m *mockBlogService) Create(ctx context.Context, callerID string, req service.CreateBlogRequest) (*model.Blog, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, callerID, req)
	}
	return nil, nil
}

func (m *mockBlogService) List(ctx context.Context) ([]*model.Blog, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockBlogService) GetDetail(ctx context.Context, id string) (*model.BlogDetail, error) {
	if m.getDetailFunc != nil {
		return m.getDetailFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBlogService) Update(ctx context.Context, callerID string, req service.UpdateBlogRequest) (*model.Blog, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, callerID, req)
	}
	return nil, nil
}

func (m *mockBlogService) Delete(ctx context.Context, callerID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, callerID, id)
	}
	return nil
}

type mockCommentService struct {
	createFunc func(ctx context.Context, callerID string, req service.CreateCommentRequest) (*model.Comment, error)
	listFunc   func(ctx context.Context, blogID string) ([]*model.CommentDetail, error)
}

func (m *mockCommentService) Create(ctx context.Context, callerID string, req service.CreateCommentRequest) (*model.Comment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, callerID, req)
	}
	return nil, nil
}

func (m *mockCommentService) ListByBlog(ctx context.Context, blogID string) ([]*model.CommentDetail, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, blogID)
	}
	return nil, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestUser() *model.User {
	now := time.Now()
	return &model.User{
		ID:        "user:abc123",
		Username:  "alice_w",
		Email:     "alice@example.com",
		Name:      "Alice",
		Hash:      "$2a$04$secret",
		CreatedOn: now,
		UpdatedOn: now,
	}
}

func newTestTokenPair() *service.TokenPair {
	return &service.TokenPair{
		UserID:           "user:abc123",
		AccessToken:      "test-access-token",
		RefreshToken:     "test-refresh-token",
		AccessExpiresIn:  1800,
		RefreshExpiresIn: 3600,
	}
}

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUserContext(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	require.NoError(t, json.Unmarshal(body, &problem))
	return &problem
}

func cookieByName(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
