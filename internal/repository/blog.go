package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/model"
)

// BlogRepository handles blog data access
type BlogRepository struct {
	db database.Database
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db database.Database) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create stores a new blog and fills in its id and timestamps
func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	query := `
		CREATE blog CONTENT {
			title: $title,
			content: $content,
			photo_path: $photo_path,
			author: type::record($author),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"title":      blog.Title,
		"content":    blog.Content,
		"photo_path": blog.PhotoPath,
		"author":     blog.Author,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("create blog: %w", err)
	}

	rows := statementRows(result, 0)
	if len(rows) == 0 {
		return errors.New("create blog: no result returned")
	}
	created, err := parseBlog(rows[0])
	if err != nil {
		return err
	}

	blog.ID = created.ID
	blog.CreatedOn = created.CreatedOn
	blog.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a blog, nil when absent
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	query := `SELECT * FROM type::record($id) WHERE meta::tb(id) = 'blog'`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseBlog(result)
}

// GetDetail retrieves a blog with its author's name and username, nil when absent
func (r *BlogRepository) GetDetail(ctx context.Context, id string) (*model.BlogDetail, error) {
	query := `
		SELECT *, author.name AS author_name, author.username AS author_username
		FROM type::record($id) WHERE meta::tb(id) = 'blog'
	`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	blog, err := parseBlog(result)
	if err != nil {
		return nil, err
	}
	data, _ := asRecord(result)

	return &model.BlogDetail{
		ID:             blog.ID,
		Title:          blog.Title,
		Content:        blog.Content,
		PhotoPath:      blog.PhotoPath,
		Author:         blog.Author,
		AuthorName:     getString(data, "author_name"),
		AuthorUsername: getString(data, "author_username"),
		CreatedOn:      blog.CreatedOn,
	}, nil
}

// List returns every blog, newest first
func (r *BlogRepository) List(ctx context.Context) ([]*model.Blog, error) {
	query := `SELECT * FROM blog ORDER BY created_on DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	blogs := make([]*model.Blog, 0, len(rows))
	for _, row := range rows {
		blog, err := parseBlog(row)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}
	return blogs, nil
}

// Update overwrites title, content and photo path
func (r *BlogRepository) Update(ctx context.Context, blog *model.Blog) error {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			content = $content,
			photo_path = $photo_path,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":         blog.ID,
		"title":      blog.Title,
		"content":    blog.Content,
		"photo_path": blog.PhotoPath,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a blog and all of its comments in one transaction
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}

	return database.NewAtomicBatch().
		Add(`DELETE comment WHERE blog = type::record($id)`, vars).
		Add(`DELETE type::record($id)`, vars).
		Execute(ctx, r.db)
}

func parseBlog(row interface{}) (*model.Blog, error) {
	data, err := asRecord(row)
	if err != nil {
		return nil, err
	}

	return &model.Blog{
		ID:        convertSurrealID(data["id"]),
		Title:     getString(data, "title"),
		Content:   getString(data, "content"),
		PhotoPath: getString(data, "photo_path"),
		Author:    convertSurrealID(data["author"]),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}, nil
}
