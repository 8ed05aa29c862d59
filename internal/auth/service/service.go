package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"postboard/internal/auth/models"
	"postboard/internal/auth/password"
	dErrors "postboard/pkg/domain-errors"
	"postboard/pkg/platform/sentinel"
)

// invalidCredentialsMessage is shared by every login failure so callers cannot tell
// an unknown email from a wrong password.
const invalidCredentialsMessage = "Invalid credentials"

type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateSessionToken(userID int64, username string) (string, error)
}

// Service implements registration, login and profile lookup.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	tracer trace.Tracer
}

func New(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		tracer: otel.Tracer("postboard/internal/auth/service"),
	}
}

// Register creates an account and returns a session token for it.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (_ *models.AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.Register")
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Cheap rejection before paying for the hash; Create re-checks atomically.
	exists, err := s.users.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing accounts")
	}
	if exists {
		return nil, dErrors.New(dErrors.CodeConflict, "User already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "User already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))

	return s.issue(user)
}

// Login verifies credentials and returns a fresh session token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (_ *models.AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))

	return s.issue(user)
}

// Profile returns the public view of the account with the given id.
func (s *Service) Profile(ctx context.Context, userID int64) (_ *models.PublicUser, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.Profile", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() { endSpan(span, err) }()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	public := user.Public()
	return &public, nil
}

func (s *Service) issue(user *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.GenerateSessionToken(user.ID, user.Username)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate token")
	}
	return &models.AuthResult{Token: token, User: user.Public()}, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil && !dErrors.Is(err, dErrors.CodeValidation) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
