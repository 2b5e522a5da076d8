package model

import "time"

// MaxCommentLength bounds comment bodies
const MaxCommentLength = 2000

// Comment represents a comment on a blog
type Comment struct {
	ID        string    `json:"id"`
	Blog      string    `json:"blog"`   // blog record id
	Author    string    `json:"author"` // user record id
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"created_on"`
}

// CommentDetail is a comment with its author's username resolved
type CommentDetail struct {
	ID             string    `json:"id"`
	Blog           string    `json:"blog"`
	Content        string    `json:"content"`
	AuthorUsername string    `json:"author_username"`
	CreatedOn      time.Time `json:"created_on"`
}
