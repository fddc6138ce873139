package authapi

import (
	"context"
	"net/http"

	"vrme/cmd/internal/auth"

	"github.com/google/uuid"
)

type ctxKey struct{}

// RequireAuth validates the bearer credential and stores the account ID in
// the request context. Failures are written with the error envelope.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.svc.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			if status, _ := statusFor(auth.KindOf(err)); status == http.StatusUnauthorized {
				w.Header().Set("WWW-Authenticate", `Bearer realm="vrme"`)
			}
			writeServiceError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), id)))
	})
}

// WithAccountID returns ctx carrying id.
func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// AccountID returns the authenticated account stored by RequireAuth.
func AccountID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
