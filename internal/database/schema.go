package database

import "context"

// Schema statements applied on startup by ApplySchema. Unique indexes back the
// username and email checks so concurrent registrations cannot both succeed.
const schema = `
DEFINE TABLE IF NOT EXISTS user SCHEMALESS;
DEFINE INDEX IF NOT EXISTS user_username ON TABLE user COLUMNS username UNIQUE;
DEFINE INDEX IF NOT EXISTS user_email ON TABLE user COLUMNS email UNIQUE;

DEFINE TABLE IF NOT EXISTS refresh_token SCHEMALESS;
DEFINE INDEX IF NOT EXISTS refresh_token_hash ON TABLE refresh_token COLUMNS token_hash;
DEFINE INDEX IF NOT EXISTS refresh_token_expiry ON TABLE refresh_token COLUMNS expires_at;

DEFINE TABLE IF NOT EXISTS blog SCHEMALESS;
DEFINE INDEX IF NOT EXISTS blog_author ON TABLE blog COLUMNS author;

DEFINE TABLE IF NOT EXISTS comment SCHEMALESS;
DEFINE INDEX IF NOT EXISTS comment_blog ON TABLE comment COLUMNS blog;
`

// ApplySchema defines tables and indexes. Every statement is idempotent.
func ApplySchema(ctx context.Context, db Database) error {
	return db.Execute(ctx, schema, nil)
}
