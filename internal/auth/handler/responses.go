package handler

import "postboard/internal/auth/models"

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// ProfileResponse is returned by GET /api/auth/profile.
type ProfileResponse struct {
	Success bool              `json:"success"`
	Data    models.PublicUser `json:"data"`
}

func newAuthResponse(message string, result *models.AuthResult) AuthResponse {
	return AuthResponse{
		Success: true,
		Message: message,
		Token:   result.Token,
		User:    result.User,
	}
}
