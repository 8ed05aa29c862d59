package handler

import "postboard/internal/posts/models"

// PostResponse wraps a single post. Message is set for mutations only.
type PostResponse struct {
	Success bool        `json:"success"`
	Data    models.Post `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ListResponse is one page of posts with its pagination metadata.
type ListResponse struct {
	Success    bool              `json:"success"`
	Data       []models.Post     `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}
