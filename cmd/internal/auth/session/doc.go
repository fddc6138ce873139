// Package session implements bearer sessions for vrme accounts.
//
// Each account has at most one session row. Logging in replaces the row's
// token, which immediately invalidates the previous one. A client presents
// its session as a bearer payload (see EncodePayload), and the Validator
// accepts it only when the token matches the stored row and the row was
// written within the configured validity window.
//
// Transport (HTTP) integration lives in the authapi package.
package session
