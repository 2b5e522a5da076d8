// Package config manages application configuration for the Quill API.
//
// Configuration is built in three layers, each overriding the previous:
//
//  1. Built-in defaults (see Default)
//  2. An optional YAML file named by CONFIG_FILE
//  3. Environment variables
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Environment Variables
//
//	SERVER_PORT, SERVER_ENV, CORS_ALLOWED_ORIGINS, BACKEND_SERVER_PATH
//	DB_HOST, DB_PORT, DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
//	ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET, JWT_ISSUER, JWT_ACCESS_TTL, JWT_REFRESH_TTL
//	COOKIE_MAX_AGE, COOKIE_SECURE, COOKIE_SAME_SITE, COOKIE_DOMAIN
//	STORAGE_BACKEND, STORAGE_DIR, S3_BUCKET, S3_REGION, S3_ENDPOINT,
//	S3_ACCESS_KEY, S3_SECRET_KEY, S3_PUBLIC_URL
//	RATE_LIMIT_RATE, RATE_LIMIT_WINDOW, RATE_LIMIT_BURST
//	TOKEN_SWEEP_INTERVAL
//
// Unparseable numeric, boolean and duration values fall back to the
// previous layer's value.
package config
