// Package auth composes credential hashing, token generation and the session
// store into the account operations exposed over HTTP: register, login,
// logout, request authentication and the account lookups.
//
// Every failure leaving this package is an *Error whose Kind the transport
// layer maps to a status code. Kinds from the session and identity packages
// are translated explicitly in fromSession and fromIdentity.
package auth
