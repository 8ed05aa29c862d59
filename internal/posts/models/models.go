package models

import (
	"time"

	"github.com/asaskevich/govalidator"

	dErrors "postboard/pkg/domain-errors"
)

// Post is a text post. Author and AuthorID are copied from the creating account and
// never change afterwards.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	AuthorID  int64      `json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p *Post) Clone() Post {
	c := *p
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *CreatePostRequest) Validate() error {
	if r == nil || govalidator.IsNull(r.Title) || govalidator.IsNull(r.Content) {
		return dErrors.New(dErrors.CodeValidation, "Please provide title and content")
	}
	return nil
}

// UpdatePostRequest carries optional replacements. Empty fields leave the stored value alone.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *UpdatePostRequest) Validate() error {
	return nil
}

// Apply overwrites the fields of p that the request supplies.
func (r *UpdatePostRequest) Apply(p *Post, at time.Time) {
	if !govalidator.IsNull(r.Title) {
		p.Title = r.Title
	}
	if !govalidator.IsNull(r.Content) {
		p.Content = r.Content
	}
	p.UpdatedAt = &at
}
