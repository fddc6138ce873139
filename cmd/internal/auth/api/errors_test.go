package authapi

import (
	"net/http"
	"testing"

	"vrme/cmd/internal/auth"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind   auth.Kind
		status int
		cause  string
	}{
		{auth.KindMissingCredentials, http.StatusUnauthorized, "missing-credentials"},
		{auth.KindInvalidFormat, http.StatusUnauthorized, "invalid-format"},
		{auth.KindInvalidAuthToken, http.StatusUnauthorized, "invalid-auth-token"},
		{auth.KindAuthTokenExpired, http.StatusUnauthorized, "token-expired"},
		{auth.KindUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{auth.KindConflict, http.StatusConflict, "conflict"},
		{auth.KindInvalidInput, http.StatusBadRequest, "bad-request"},
		{auth.KindNotFound, http.StatusNotFound, "not-found"},
		{auth.KindInternal, http.StatusInternalServerError, "internal-server-error"},
		{auth.Kind(0), http.StatusInternalServerError, "internal-server-error"},
	}

	for _, tc := range tests {
		status, cause := statusFor(tc.kind)
		if status != tc.status || cause != tc.cause {
			t.Fatalf("statusFor(%v)=(%d,%q), want (%d,%q)", tc.kind, status, cause, tc.status, tc.cause)
		}
	}
}
