package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"postboard/internal/auth/models"
	"postboard/internal/platform/metrics"
	"postboard/internal/platform/middleware"
	dErrors "postboard/pkg/domain-errors"
	"postboard/pkg/platform/httputil"
	"postboard/pkg/requestcontext"
)

// Service defines the interface for account operations.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
	Profile(ctx context.Context, userID int64) (*models.PublicUser, error)
}

// Handler serves the /api/auth endpoints.
type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new auth Handler.
func New(
	service Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the auth routes; only the profile route sits behind the token gate.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.HandleRegister)
	r.Post("/api/auth/login", h.HandleLogin)
	r.With(middleware.RequireAuth(h.jwtValidator, h.logger)).Get("/api/auth/profile", h.HandleProfile)
}

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Register(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "registration failed")
		return
	}

	h.metrics.IncrementUsersRegistered()
	h.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"user_id", result.User.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, newAuthResponse("User registered successfully", result))
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			h.metrics.IncrementLogin(metrics.LoginFailed)
		}
		h.writeServiceError(ctx, w, err, "login failed")
		return
	}

	h.metrics.IncrementLogin(metrics.LoginSucceeded)
	h.logger.InfoContext(ctx, "user logged in",
		"request_id", requestID,
		"user_id", result.User.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, newAuthResponse("Login successful", result))
}

// HandleProfile handles GET /api/auth/profile for the authenticated caller.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := requestcontext.IdentityFrom(ctx)
	if !ok {
		// This should never happen if RequireAuth middleware is configured correctly
		h.logger.ErrorContext(ctx, "identity missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	profile, err := h.service.Profile(ctx, caller.ID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "profile lookup failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProfileResponse{Success: true, Data: *profile})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	requestID := requestcontext.RequestID(ctx)
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	} else {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}
