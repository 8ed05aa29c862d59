package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"postboard/internal/platform/metrics"
	"postboard/internal/platform/middleware"
	"postboard/internal/posts/models"
	dErrors "postboard/pkg/domain-errors"
	"postboard/pkg/platform/httputil"
	"postboard/pkg/requestcontext"
)

// Service defines the interface for post operations.
type Service interface {
	List(ctx context.Context, q models.PageQuery) (*models.PostPage, error)
	All(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, caller requestcontext.Identity, req *models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, id int64, req *models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, id int64) (*models.Post, error)
}

// Handler serves /api/posts and the HTML listing at /posts.
type Handler struct {
	service          Service
	logger           *slog.Logger
	metrics          *metrics.Metrics
	jwtValidator     middleware.JWTValidator
	protectMutations bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithProtectedMutations puts update and delete behind the token gate.
func WithProtectedMutations(protect bool) Option {
	return func(h *Handler) {
		h.protectMutations = protect
	}
}

// New creates a new posts Handler.
func New(
	service Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	opts ...Option) *Handler {
	h := &Handler{
		service:      service,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the post routes. Creation always requires a token; update and
// delete only when protected mutations are enabled.
func (h *Handler) Register(r chi.Router) {
	requireAuth := middleware.RequireAuth(h.jwtValidator, h.logger)

	r.Get("/posts", h.HandlePage)
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.With(requireAuth).Post("/", h.HandleCreate)

		r.Group(func(r chi.Router) {
			if h.protectMutations {
				r.Use(requireAuth)
			}
			r.Put("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
		})
	})
}

// HandleList handles GET /api/posts?page=&limit=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := models.ParsePageQuery(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	page, err := h.service.List(ctx, query)
	if err != nil {
		h.writeServiceError(ctx, w, err, "list posts failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Data:       nonNil(page.Posts),
		Pagination: page.Pagination,
	})
}

// HandleGet handles GET /api/posts/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "get post failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, PostResponse{Success: true, Data: *post})
}

// HandleCreate handles POST /api/posts for the authenticated caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	req, ok := httputil.DecodeAndPrepare[models.CreatePostRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	post, err := h.service.Create(ctx, caller, req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "create post failed")
		return
	}

	h.metrics.IncrementPostsCreated()
	h.logger.InfoContext(ctx, "post created",
		"request_id", requestID,
		"post_id", post.ID,
		"user_id", caller.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, PostResponse{
		Success: true,
		Data:    *post,
		Message: "Post created successfully",
	})
}

// HandleUpdate handles PUT /api/posts/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.UpdatePostRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	post, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "update post failed")
		return
	}

	h.metrics.IncrementPostsUpdated()
	h.logger.InfoContext(ctx, "post updated",
		"request_id", requestID,
		"post_id", post.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, PostResponse{
		Success: true,
		Data:    *post,
		Message: "Post updated successfully",
	})
}

// HandleDelete handles DELETE /api/posts/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.Delete(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "delete post failed")
		return
	}

	h.metrics.IncrementPostsDeleted()
	h.logger.InfoContext(ctx, "post deleted",
		"request_id", requestID,
		"post_id", post.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, PostResponse{
		Success: true,
		Data:    *post,
		Message: "Post deleted successfully",
	})
}

// postID reads the leading digits of the {id} URL parameter ("1abc" is post 1). An id
// without leading digits cannot name a post, so it is reported as not found.
func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, ok := models.ParseLeadingInt(raw)
	if !ok {
		h.logger.WarnContext(r.Context(), "non-numeric post id",
			"request_id", requestcontext.RequestID(r.Context()),
			"id", raw,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Post not found"))
		return 0, false
	}
	return id, true
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

func nonNil(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
