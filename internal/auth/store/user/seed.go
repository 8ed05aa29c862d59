package user

import (
	"context"
	"fmt"

	"postboard/internal/auth/models"
)

// PasswordHasher hashes seed passwords the same way registration does.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

var demoAccounts = []struct {
	username string
	email    string
	password string
}{
	{"john", "john@example.com", "password123"},
	{"jane", "jane@example.com", "password456"},
}

// SeedDemoUsers creates the demo accounts john (id 1) and jane (id 2) on an empty store.
func SeedDemoUsers(ctx context.Context, s *InMemoryUserStore, hasher PasswordHasher) ([]*models.User, error) {
	seeded := make([]*models.User, 0, len(demoAccounts))
	for _, account := range demoAccounts {
		hash, err := hasher.Hash(account.password)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", account.username, err)
		}
		created, err := s.Create(ctx, &models.User{
			Username:     account.username,
			Email:        account.email,
			PasswordHash: hash,
		})
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", account.username, err)
		}
		seeded = append(seeded, created)
	}
	return seeded, nil
}
