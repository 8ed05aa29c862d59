package store

import (
	"context"
	"fmt"
	"time"

	"postboard/internal/posts/models"
)

var demoPosts = []struct {
	title   string
	content string
	author  string
}{
	{"First Post", "This is my first post!", "John"},
	{"Second Post", "Another great post!", "Jane"},
}

// SeedDemoPosts creates the two demo posts in order, attributing them to authorIDs
// (john's and jane's account ids), stamped with createdAt.
func SeedDemoPosts(ctx context.Context, s *InMemoryPostStore, authorIDs []int64, createdAt time.Time) ([]*models.Post, error) {
	if len(authorIDs) != len(demoPosts) {
		return nil, fmt.Errorf("seed posts: need %d author ids, got %d", len(demoPosts), len(authorIDs))
	}
	seeded := make([]*models.Post, 0, len(demoPosts))
	for i, p := range demoPosts {
		created, err := s.Create(ctx, &models.Post{
			Title:     p.title,
			Content:   p.content,
			Author:    p.author,
			AuthorID:  authorIDs[i],
			CreatedAt: createdAt,
		})
		if err != nil {
			return nil, fmt.Errorf("seed post %q: %w", p.title, err)
		}
		seeded = append(seeded, created)
	}
	return seeded, nil
}
