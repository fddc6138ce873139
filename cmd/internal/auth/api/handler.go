package authapi

import (
	"context"
	"log/slog"
	"net/http"

	"vrme/cmd/identity/ids"
	"vrme/cmd/internal/auth"
	v1 "vrme/shared/contracts/auth/v1"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Service is the auth surface the handlers call. *auth.Service implements it.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, in auth.LoginInput) (auth.LoginResult, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
	Authenticate(ctx context.Context, header string) (uuid.UUID, error)
	AccountInfo(ctx context.Context, id uuid.UUID) (auth.Profile, error)
	Me(ctx context.Context, id uuid.UUID) (auth.Profile, error)
	AccountIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

var _ Service = (*auth.Service)(nil)

// Handler wires HTTP auth endpoints to the auth service.
type Handler struct {
	log *slog.Logger
	cfg Config
	svc Service
}

// HandlerOption configures optional handler dependencies.
type HandlerOption func(*Handler)

// WithLogger overrides slog.Default().
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if h == nil || log == nil {
			return
		}
		h.log = log
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(cfg Config, svc Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		log: slog.Default(),
		cfg: cfg.withDefaults(),
		svc: svc,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Register wires auth and account routes onto r.
func (h *Handler) Register(r chi.Router) {
	if h == nil || r == nil {
		return
	}

	r.Post(v1.PathRegister, h.handleRegister)
	r.Post(v1.PathLogin, h.handleLogin)
	r.Get(v1.PathAccountByID, h.handleAccountInfo)
	r.Post(v1.PathAccountUUID, h.handleAccountID)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post(v1.PathLogout, h.handleLogout)
		r.Get(v1.PathMe, h.handleMe)
		r.Delete(v1.PathAccountsMe, h.handleDeleteMe)
	})
}

// NotFound writes the envelope for unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, CauseNotFound, "resource not found")
}

// MethodNotAllowed writes the envelope for known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, CauseMethodNotAllowed, "method not allowed")
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, CauseBadRequest, decodeMessage(err))
		return
	}

	_, err := h.svc.Register(r.Context(), auth.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		ClientHash: req.ClientHash,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, CauseBadRequest, decodeMessage(err))
		return
	}

	res, err := h.svc.Login(r.Context(), auth.LoginInput{Email: req.Email, ClientHash: req.ClientHash})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse{AccountID: res.AccountID, AuthToken: res.AuthToken})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, _ := AccountID(r.Context())
	if err := h.svc.Logout(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := AccountID(r.Context())
	p, err := h.svc.Me(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		AccountID: p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	})
}

func (h *Handler) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	id, _ := AccountID(r.Context())
	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAccountInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := ids.ParseAccountID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, CauseNotFound, "account not found")
		return
	}
	p, err := h.svc.AccountInfo(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountInfoResponse{FirstName: p.FirstName, LastName: p.LastName})
}

func (h *Handler) handleAccountID(w http.ResponseWriter, r *http.Request) {
	var req accountIDRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, CauseBadRequest, decodeMessage(err))
		return
	}
	id, err := h.svc.AccountIDByEmail(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountIDResponse{AccountID: id})
}
