package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"postboard/internal/posts/models"
	dErrors "postboard/pkg/domain-errors"
	"postboard/pkg/platform/sentinel"
	"postboard/pkg/requestcontext"
)

const postNotFoundMessage = "Post not found"

type PostStore interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Page(ctx context.Context, q models.PageQuery) (*models.PostPage, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, id int64, fn func(*models.Post)) (*models.Post, error)
	Delete(ctx context.Context, id int64) (*models.Post, error)
}

// Service implements post retrieval and mutation.
type Service struct {
	posts  PostStore
	tracer trace.Tracer
}

func New(posts PostStore) *Service {
	return &Service{
		posts:  posts,
		tracer: otel.Tracer("postboard/internal/posts/service"),
	}
}

// List returns one page of posts in insertion order.
func (s *Service) List(ctx context.Context, q models.PageQuery) (_ *models.PostPage, err error) {
	ctx, span := s.tracer.Start(ctx, "posts.List", trace.WithAttributes(
		attribute.Int("page", q.Page),
		attribute.Int("limit", q.Limit),
	))
	defer func() { endSpan(span, err) }()

	page, err := s.posts.Page(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	return page, nil
}

// All returns every post; used by the HTML listing.
func (s *Service) All(ctx context.Context) (_ []models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "posts.All")
	defer func() { endSpan(span, err) }()

	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (_ *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "posts.Get", trace.WithAttributes(attribute.Int64("post.id", id)))
	defer func() { endSpan(span, err) }()

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load post")
	}
	return post, nil
}

// Create stores a post attributed to caller. Author fields never come from the body.
func (s *Service) Create(ctx context.Context, caller requestcontext.Identity, req *models.CreatePostRequest) (_ *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "posts.Create", trace.WithAttributes(attribute.Int64("user.id", caller.ID)))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.posts.Create(ctx, &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Author:    caller.Username,
		AuthorID:  caller.ID,
		CreatedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create post")
	}
	span.SetAttributes(attribute.Int64("post.id", post.ID))
	return post, nil
}

// Update overwrites the supplied non-empty fields and always stamps updatedAt.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdatePostRequest) (_ *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "posts.Update", trace.WithAttributes(attribute.Int64("post.id", id)))
	defer func() { endSpan(span, err) }()

	at := requestcontext.Now(ctx)
	post, err := s.posts.Update(ctx, id, func(p *models.Post) {
		req.Apply(p, at)
	})
	if err != nil {
		return nil, translate(err, "failed to update post")
	}
	return post, nil
}

// Delete removes the post and returns what was removed.
func (s *Service) Delete(ctx context.Context, id int64) (_ *models.Post, err error) {
	ctx, span := s.tracer.Start(ctx, "posts.Delete", trace.WithAttributes(attribute.Int64("post.id", id)))
	defer func() { endSpan(span, err) }()

	post, err := s.posts.Delete(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to delete post")
	}
	return post, nil
}

func translate(err error, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, postNotFoundMessage)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

func endSpan(span trace.Span, err error) {
	if de, ok := dErrors.As(err); ok && (de.Code == dErrors.CodeValidation || de.Code == dErrors.CodeNotFound) {
		span.SetAttributes(attribute.String("error.code", string(de.Code)))
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
