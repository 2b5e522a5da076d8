package model

import "time"

// MaxTitleLength bounds blog titles
const MaxTitleLength = 200

// Blog represents a blog post
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	PhotoPath string    `json:"photo_path"`
	Author    string    `json:"author"` // user record id
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// BlogDetail is a blog with its author's display fields resolved
type BlogDetail struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	PhotoPath      string    `json:"photo_path"`
	Author         string    `json:"author"`
	AuthorName     string    `json:"author_name"`
	AuthorUsername string    `json:"author_username"`
	CreatedOn      time.Time `json:"created_on"`
}
