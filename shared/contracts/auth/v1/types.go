// Package v1 defines the vrme account and session HTTP contract.
//
// It is shared between the server and its clients so the JSON shapes and
// error cause tags have one definition.
package v1

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Paths served by the auth API.
const (
	PathRegister     = "/register"
	PathLogin        = "/login"
	PathLogout       = "/logout"
	PathMe           = "/me"
	PathAccountsMe   = "/accounts/me"
	PathAccountByID  = "/accounts/{id}"
	PathAccountUUID  = "/accounts/uuid"
	AuthScheme       = "Bearer"
	AuthorizationKey = "Authorization"
)

// Cause tags carried in ErrorResponse.Cause (wire-stable).
const (
	CauseMissingCredentials = "missing-credentials"
	CauseInvalidFormat      = "invalid-format"
	CauseInvalidAuthToken   = "invalid-auth-token"
	CauseTokenExpired       = "token-expired"
	CauseUnauthorized       = "unauthorized"
	CauseConflict           = "conflict"
	CauseBadRequest         = "bad-request"
	CauseNotFound           = "not-found"
	CauseInternal           = "internal-server-error"
	CauseMethodNotAllowed   = "method-not-allowed"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Cause   string `json:"cause"`
	Message string `json:"message"`
}

// RegisterRequest is the body of POST /register.
// ClientHash is the base64 of the client's 32-byte password pre-hash.
type RegisterRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	ClientHash string `json:"client_hash"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email      string `json:"email"`
	ClientHash string `json:"client_hash"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	AuthToken string    `json:"auth_token"`
}

// AccountInfoResponse is the public profile returned by GET /accounts/{id}.
type AccountInfoResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AccountIDRequest is the body of POST /accounts/uuid.
type AccountIDRequest struct {
	Email string `json:"email"`
}

// AccountIDResponse is returned by POST /accounts/uuid.
type AccountIDResponse struct {
	AccountID uuid.UUID `json:"account_id"`
}

// MeResponse is returned by GET /me.
type MeResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// AuthorizationHeader formats a bearer value for the Authorization header.
func AuthorizationHeader(bearer string) string {
	return AuthScheme + " " + strings.TrimSpace(bearer)
}

// BearerPayload is the JSON object a bearer value encodes.
type BearerPayload struct {
	AccountID uuid.UUID `json:"account_id"`
	Token     string    `json:"token"`
}

// EncodeBearer builds the bearer value from a LoginResponse's fields:
// standard base64 of {"account_id":...,"token":...}.
func EncodeBearer(accountID uuid.UUID, authToken string) string {
	b, _ := json.Marshal(BearerPayload{AccountID: accountID, Token: authToken})
	return base64.StdEncoding.EncodeToString(b)
}
