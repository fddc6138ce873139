// Package identity owns accounts: the registered principals that sessions
// belong to.
//
// It defines the Account model, input normalization, and the Store boundary
// with Postgres and in-memory implementations. Credential derivation lives in
// cmd/security/password; this package only persists the result.
package identity
