package authapi

import (
	"net/http"

	"vrme/cmd/internal/auth"
	v1 "vrme/shared/contracts/auth/v1"
)

// Cause tags carried in the error envelope.
const (
	CauseMissingCredentials = v1.CauseMissingCredentials
	CauseInvalidFormat      = v1.CauseInvalidFormat
	CauseInvalidAuthToken   = v1.CauseInvalidAuthToken
	CauseTokenExpired       = v1.CauseTokenExpired
	CauseUnauthorized       = v1.CauseUnauthorized
	CauseConflict           = v1.CauseConflict
	CauseBadRequest         = v1.CauseBadRequest
	CauseNotFound           = v1.CauseNotFound
	CauseInternal           = v1.CauseInternal
	CauseMethodNotAllowed   = v1.CauseMethodNotAllowed
)

// statusFor is the single kind -> (status, cause) table.
func statusFor(kind auth.Kind) (int, string) {
	switch kind {
	case auth.KindMissingCredentials:
		return http.StatusUnauthorized, CauseMissingCredentials
	case auth.KindInvalidFormat:
		return http.StatusUnauthorized, CauseInvalidFormat
	case auth.KindInvalidAuthToken:
		return http.StatusUnauthorized, CauseInvalidAuthToken
	case auth.KindAuthTokenExpired:
		return http.StatusUnauthorized, CauseTokenExpired
	case auth.KindUnauthorized:
		return http.StatusUnauthorized, CauseUnauthorized
	case auth.KindConflict:
		return http.StatusConflict, CauseConflict
	case auth.KindInvalidInput:
		return http.StatusBadRequest, CauseBadRequest
	case auth.KindNotFound:
		return http.StatusNotFound, CauseNotFound
	default:
		return http.StatusInternalServerError, CauseInternal
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, cause := statusFor(auth.KindOf(err))
	writeError(w, status, cause, auth.Message(err))
}
