package user

import (
	"context"
	"sync"

	"postboard/internal/auth/models"
	"postboard/pkg/platform/sentinel"
)

// InMemoryUserStore keeps accounts in registration order. Lookups are linear scans,
// which is fine for the handful of accounts a process-local store holds.
type InMemoryUserStore struct {
	mu     sync.RWMutex
	users  []models.User
	nextID int64
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{nextID: 1}
}

// Create assigns the next id and appends the account. The email/username uniqueness
// check runs under the same lock as the append, so concurrent registrations with the
// same email cannot both succeed.
func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexWhere(func(u *models.User) bool {
		return u.Email == user.Email || u.Username == user.Username
	}) != -1 {
		return nil, sentinel.ErrConflict
	}

	record := *user
	record.ID = s.nextID
	s.nextID++
	s.users = append(s.users, record)
	return &record, nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

// ExistsByEmailOrUsername reports whether either attribute is already taken.
func (s *InMemoryUserStore) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexWhere(func(u *models.User) bool {
		return u.Email == email || u.Username == username
	}) != -1, nil
}

func (s *InMemoryUserStore) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexWhere(match); i != -1 {
		record := s.users[i]
		return &record, nil
	}
	return nil, sentinel.ErrNotFound
}

// indexWhere must be called with the lock held.
func (s *InMemoryUserStore) indexWhere(match func(*models.User) bool) int {
	for i := range s.users {
		if match(&s.users[i]) {
			return i
		}
	}
	return -1
}
