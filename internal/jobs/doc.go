// Package jobs implements background work for the Quill API.
//
// Jobs run independently of HTTP request handling and follow one shape:
// Start launches a ticker loop, Stop closes it and waits, RunOnce performs
// a single pass for tests or manual triggers.
//
//   - TokenSweeper: deletes refresh token records past their expiry
//
// Jobs log failures and keep running.
package jobs
