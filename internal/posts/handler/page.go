package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"postboard/internal/posts/models"
	"postboard/pkg/platform/httputil"
	"postboard/pkg/requestcontext"
)

//go:embed templates/posts.html.tmpl
var templates embed.FS

var pageTemplate = template.Must(template.New("posts.html.tmpl").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
}).ParseFS(templates, "templates/posts.html.tmpl"))

type pageData struct {
	Posts []models.Post
}

// HandlePage handles GET /posts, a server-rendered list of every post.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.service.All(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err, "render posts page failed")
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Posts: posts}); err != nil {
		h.logger.ErrorContext(ctx, "posts template failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
