package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/model"
	"github.com/forgo/quill/api/internal/storage"
	"github.com/forgo/quill/api/pkg/jwt"
)

// ============================================================================
// Clock
// ============================================================================

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSessions(tokens TokenRepository, clock *testClock) *SessionManager {
	return NewSessionManager(SessionManagerConfig{
		JWTService: jwt.NewTestService("quill-test", clock.Now),
		TokenRepo:  tokens,
		Now:        clock.Now,
	})
}

// ============================================================================
// In-memory token store
// ============================================================================

type memTokenRepo struct {
	mu      sync.Mutex
	records map[string]RefreshToken
	writes  []string // token hashes in write order
	now     func() time.Time

	findErr   error
	upsertErr error
	rotateErr error
	deleteErr error
}

func newMemTokenRepo(now func() time.Time) *memTokenRepo {
	return &memTokenRepo{records: make(map[string]RefreshToken), now: now}
}

func (m *memTokenRepo) Find(ctx context.Context, userID string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	rec, ok := m.records[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memTokenRepo) Upsert(ctx context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.records[token.UserID] = *token
	m.writes = append(m.writes, token.TokenHash)
	return nil
}

func (m *memTokenRepo) Rotate(ctx context.Context, userID, oldHash string, token *RefreshToken) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rotateErr != nil {
		return false, m.rotateErr
	}
	rec, ok := m.records[userID]
	if !ok || rec.TokenHash != oldHash {
		return false, nil
	}
	m.records[userID] = *token
	m.writes = append(m.writes, token.TokenHash)
	return true, nil
}

func (m *memTokenRepo) DeleteByHash(ctx context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for userID, rec := range m.records {
		if rec.TokenHash == hash {
			delete(m.records, userID)
		}
	}
	return nil
}

func (m *memTokenRepo) DeleteExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := 0
	now := m.now()
	for userID, rec := range m.records {
		if !rec.ExpiresAt.After(now) {
			delete(m.records, userID)
			n++
		}
	}
	return n, nil
}

func (m *memTokenRepo) stored(userID string) (RefreshToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	return rec, ok
}

func (m *memTokenRepo) lastWrite() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return ""
	}
	return m.writes[len(m.writes)-1]
}

// ============================================================================
// In-memory user store
// ============================================================================

type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int

	createErr error
	getErr    error
	existsErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: index user_email already contains %q", database.ErrDuplicate, user.Email)
		}
		if u.Username == user.Username {
			return fmt.Errorf("%w: index user_username already contains %q", database.ErrDuplicate, user.Username)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user:u%d", m.nextID)
	user.CreatedOn = time.Now()
	user.UpdatedOn = user.CreatedOn
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// ============================================================================
// Blog, comment and image mocks
// ============================================================================

type mockBlogRepo struct {
	blogs  map[string]*model.Blog
	nextID int

	createErr error
	updateErr error
	deleteErr error
	getErr    error
}

func newMockBlogRepo() *mockBlogRepo {
	return &mockBlogRepo{blogs: make(map[string]*model.Blog)}
}

func (m *mockBlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	blog.ID = fmt.Sprintf("blog:b%d", m.nextID)
	blog.CreatedOn = time.Now().Add(time.Duration(m.nextID) * time.Second)
	cp := *blog
	m.blogs[blog.ID] = &cp
	return nil
}

func (m *mockBlogRepo) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	b, ok := m.blogs[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *mockBlogRepo) GetDetail(ctx context.Context, id string) (*model.BlogDetail, error) {
	b, err := m.GetByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	return &model.BlogDetail{
		ID:             b.ID,
		Title:          b.Title,
		Content:        b.Content,
		PhotoPath:      b.PhotoPath,
		Author:         b.Author,
		AuthorName:     "Name of " + b.Author,
		AuthorUsername: "username-" + b.Author,
		CreatedOn:      b.CreatedOn,
	}, nil
}

func (m *mockBlogRepo) List(ctx context.Context) ([]*model.Blog, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]*model.Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedOn.After(out[j].CreatedOn) })
	return out, nil
}

func (m *mockBlogRepo) Update(ctx context.Context, blog *model.Blog) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *blog
	m.blogs[blog.ID] = &cp
	return nil
}

func (m *mockBlogRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.blogs, id)
	return nil
}

type mockCommentRepo struct {
	comments  []*model.Comment
	createErr error
	listErr   error
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if m.createErr != nil {
		return m.createErr
	}
	comment.ID = fmt.Sprintf("comment:c%d", len(m.comments)+1)
	comment.CreatedOn = time.Now()
	m.comments = append(m.comments, comment)
	return nil
}

func (m *mockCommentRepo) ListByBlog(ctx context.Context, blogID string) ([]*model.CommentDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*model.CommentDetail{}
	for _, c := range m.comments {
		if c.Blog == blogID {
			out = append(out, &model.CommentDetail{ID: c.ID, Blog: c.Blog, Content: c.Content, CreatedOn: c.CreatedOn})
		}
	}
	return out, nil
}

type mockImageStore struct {
	saved   map[string]bool
	n       int
	saveErr error
	delErr  error
	deleted []string
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{saved: make(map[string]bool)}
}

func (m *mockImageStore) Save(ctx context.Context, owner, encoded string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if encoded == "" || encoded == "not-an-image" {
		return "", storage.ErrInvalidImage
	}
	m.n++
	url := fmt.Sprintf("http://localhost:8080/storage/%d-%s.png", m.n, owner)
	m.saved[url] = true
	return url, nil
}

func (m *mockImageStore) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.saved, url)
	return nil
}

var errStoreDown = errors.New("store unavailable")
