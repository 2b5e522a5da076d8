// Package model defines domain entities and data structures for the Quill API.
//
// The model package contains the struct definitions shared by every layer:
// users, blogs, comments and their read-side projections, plus the RFC 9457
// error documents returned by the HTTP layer.
//
// # Domain Entities
//
//   - User: account holder with a unique username and email
//   - Blog: a post with a title, body and cover image, owned by one user
//   - Comment: a short note attached to a blog by a user
//
// Record ids are SurrealDB record ids rendered as "table:id" strings
// (for example "user:01hx..." or "blog:xyz").
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
