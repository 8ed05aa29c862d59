package models

import (
	"github.com/asaskevich/govalidator"

	dErrors "postboard/pkg/domain-errors"
)

// User is an account record. Records are created by registration and never change.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// Public returns the view of the account that may leave the service.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// PublicUser never carries the password hash.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate only checks presence; formats and password strength are not enforced.
func (r *RegisterRequest) Validate() error {
	if r == nil || govalidator.IsNull(r.Username) || govalidator.IsNull(r.Email) || govalidator.IsNull(r.Password) {
		return dErrors.New(dErrors.CodeValidation, "Please provide username, email, and password")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r == nil || govalidator.IsNull(r.Email) || govalidator.IsNull(r.Password) {
		return dErrors.New(dErrors.CodeValidation, "Please provide email and password")
	}
	return nil
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  PublicUser
}
