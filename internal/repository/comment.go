package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/quill/api/internal/database"
	"github.com/forgo/quill/api/internal/model"
)

// CommentRepository handles comment data access
type CommentRepository struct {
	db database.Database
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db database.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create stores a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		CREATE comment CONTENT {
			blog: type::record($blog),
			author: type::record($author),
			content: $content,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"blog":    comment.Blog,
		"author":  comment.Author,
		"content": comment.Content,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	rows := statementRows(result, 0)
	if len(rows) == 0 {
		return errors.New("create comment: no result returned")
	}
	data, err := asRecord(rows[0])
	if err != nil {
		return err
	}

	comment.ID = convertSurrealID(data["id"])
	comment.CreatedOn = parseTime(data["created_on"])
	return nil
}

// ListByBlog returns a blog's comments oldest first with author usernames resolved
func (r *CommentRepository) ListByBlog(ctx context.Context, blogID string) ([]*model.CommentDetail, error) {
	query := `
		SELECT *, author.username AS author_username
		FROM comment
		WHERE blog = type::record($blog)
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{"blog": blogID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	comments := make([]*model.CommentDetail, 0, len(rows))
	for _, row := range rows {
		data, err := asRecord(row)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &model.CommentDetail{
			ID:             convertSurrealID(data["id"]),
			Blog:           convertSurrealID(data["blog"]),
			Content:        getString(data, "content"),
			AuthorUsername: getString(data, "author_username"),
			CreatedOn:      parseTime(data["created_on"]),
		})
	}
	return comments, nil
}
