package user

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"postboard/internal/auth/models"
	"postboard/pkg/platform/sentinel"
)

// Lookup, sequential ids and the atomic uniqueness check are store invariants the
// registration service relies on.
type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
	ctx   context.Context
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) TestCreateAssignsSequentialIDs() {
	first, err := s.store.Create(s.ctx, &models.User{Username: "ada", Email: "ada@example.com", PasswordHash: "h1"})
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, &models.User{Username: "grace", Email: "grace@example.com", PasswordHash: "h2"})
	s.Require().NoError(err)

	s.Equal(int64(1), first.ID)
	s.Equal(int64(2), second.ID)
}

func (s *InMemoryUserStoreSuite) TestCreateRejectsDuplicates() {
	_, err := s.store.Create(s.ctx, &models.User{Username: "ada", Email: "ada@example.com"})
	s.Require().NoError(err)

	s.Run("same email, different username", func() {
		_, err := s.store.Create(s.ctx, &models.User{Username: "ada2", Email: "ada@example.com"})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same username, different email", func() {
		_, err := s.store.Create(s.ctx, &models.User{Username: "ada", Email: "other@example.com"})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("matching is case sensitive", func() {
		_, err := s.store.Create(s.ctx, &models.User{Username: "Ada", Email: "Ada@example.com"})
		s.Require().NoError(err)
	})
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	created, err := s.store.Create(s.ctx, &models.User{Username: "linus", Email: "linus@example.com", PasswordHash: "hash"})
	s.Require().NoError(err)

	s.Run("returns user by ID when exists", func() {
		found, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created, found)
	})

	s.Run("returns user by email when exists", func() {
		found, err := s.store.FindByEmail(s.ctx, "linus@example.com")
		s.Require().NoError(err)
		s.Equal(created, found)
	})

	s.Run("returns ErrNotFound when user ID does not exist", func() {
		_, err := s.store.FindByID(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound when email does not exist", func() {
		_, err := s.store.FindByEmail(s.ctx, "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("exists by email or username", func() {
		exists, err := s.store.ExistsByEmailOrUsername(s.ctx, "nobody@example.com", "linus")
		s.Require().NoError(err)
		s.True(exists)

		exists, err = s.store.ExistsByEmailOrUsername(s.ctx, "nobody@example.com", "nobody")
		s.Require().NoError(err)
		s.False(exists)
	})

	s.Run("returned records do not alias the store", func() {
		found, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		found.Username = "mutated"

		again, err := s.store.FindByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal("linus", again.Username)
	})
}

func (s *InMemoryUserStoreSuite) TestConcurrentDuplicateRegistrations() {
	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.store.Create(s.ctx, &models.User{
				Username: fmt.Sprintf("racer-%d", i),
				Email:    "race@example.com",
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, successes)
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (s *InMemoryUserStoreSuite) TestSeedDemoUsers() {
	seeded, err := SeedDemoUsers(s.ctx, s.store, plainHasher{})
	s.Require().NoError(err)
	s.Require().Len(seeded, 2)

	s.Equal(int64(1), seeded[0].ID)
	s.Equal("john", seeded[0].Username)
	s.Equal("hashed:password123", seeded[0].PasswordHash)
	s.Equal(int64(2), seeded[1].ID)
	s.Equal("jane@example.com", seeded[1].Email)

	next, err := s.store.Create(s.ctx, &models.User{Username: "new", Email: "new@example.com"})
	s.Require().NoError(err)
	s.Equal(int64(3), next.ID)
}
