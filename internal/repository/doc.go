// Package repository implements the data access layer for the Quill API.
//
// Each repository wraps a database.Database and owns the SurrealQL for one
// record type: users, refresh tokens, blogs and comments. Results come back
// as generic maps and are parsed field by field into model structs, with
// SurrealDB record ids rendered as "table:id" strings.
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax
//   - type::record() for id handling
//   - time::now() for timestamps
//   - record links (author, blog) resolved with dotted field access
//
// # Example Usage
//
//	repo := NewBlogRepository(db)
//	blog, err := repo.GetByID(ctx, "blog:abc123")
//	if err != nil {
//	    return err
//	}
//	if blog == nil {
//	    // not found
//	}
package repository
