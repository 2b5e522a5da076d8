// Package handler provides HTTP request handlers for the Quill API.
//
// Each handler struct wraps one service interface and serves the routes of
// one feature area (auth, blogs, comments, health). Handlers are plain
// http.HandlerFunc methods registered on a net/http ServeMux with method
// patterns such as "GET /blog/{id}".
//
// # Requests
//
// Bodies are decoded with DecodeJSON, which rejects unknown fields, and then
// checked with go-playground/validator struct tags. Failures become 400
// Problem Details listing each offending field by its JSON name.
//
// # Responses
//
//   - WriteJSON: raw JSON body
//   - WriteData: {"data": ...} with optional links
//   - WriteMessage: {"message": ...}
//   - WriteError: RFC 9457 Problem Details
//
// Service errors are translated in one place, MapServiceError.
//
// # Sessions
//
// The auth endpoints deliver tokens as HttpOnly cookies named accessToken
// and refreshToken. Cookie lifetime comes from configuration and is
// independent of token expiry; an expired token in a live cookie is still
// rejected.
package handler
