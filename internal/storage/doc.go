// Package storage persists blog cover images.
//
// Images arrive as base64 strings, optionally carrying a
// "data:image/png;base64," style prefix. DecodeImage strips the prefix,
// decodes the payload and checks that it really is a PNG or JPEG.
// Objects are named "<ULID>-<owner key>.png" so names sort by upload time
// and never collide.
//
// Two backends are provided:
//
//   - LocalStore writes under a directory and serves files at /storage/
//   - S3Store puts objects into an S3-compatible bucket (AWS, MinIO)
//
// Both return a public URL from Save and accept that URL in Delete.
// Deleting an object that no longer exists is not an error.
package storage
