package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"postboard/internal/posts/models"
	"postboard/pkg/platform/sentinel"
)

type InMemoryPostStoreSuite struct {
	suite.Suite
	store *InMemoryPostStore
	ctx   context.Context
	now   time.Time
}

func (s *InMemoryPostStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestInMemoryPostStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryPostStoreSuite))
}

func (s *InMemoryPostStoreSuite) create(title string) *models.Post {
	p, err := s.store.Create(s.ctx, &models.Post{Title: title, Content: title + " body", Author: "ada", AuthorID: 1, CreatedAt: s.now})
	s.Require().NoError(err)
	return p
}

func (s *InMemoryPostStoreSuite) TestCreateAndFind() {
	first := s.create("one")
	second := s.create("two")
	s.Equal(int64(1), first.ID)
	s.Equal(int64(2), second.ID)

	found, err := s.store.FindByID(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(*second, *found)

	_, err = s.store.FindByID(s.ctx, 3)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryPostStoreSuite) TestIDsAreNotReusedAfterDelete() {
	s.create("one")
	two := s.create("two")
	_, err := s.store.Delete(s.ctx, two.ID)
	s.Require().NoError(err)

	three := s.create("three")
	s.Equal(int64(3), three.ID)
}

func (s *InMemoryPostStoreSuite) TestPage() {
	for i := 1; i <= 7; i++ {
		s.create(fmt.Sprintf("post-%d", i))
	}

	s.Run("first page keeps insertion order", func() {
		page, err := s.store.Page(s.ctx, models.PageQuery{Page: 1, Limit: 5})
		s.Require().NoError(err)
		s.Require().Len(page.Posts, 5)
		s.Equal("post-1", page.Posts[0].Title)
		s.Equal("post-5", page.Posts[4].Title)
		s.Equal(models.Pagination{CurrentPage: 1, TotalPages: 2, TotalPosts: 7, HasNext: true, HasPrev: false}, page.Pagination)
	})

	s.Run("last partial page", func() {
		page, err := s.store.Page(s.ctx, models.PageQuery{Page: 2, Limit: 5})
		s.Require().NoError(err)
		s.Require().Len(page.Posts, 2)
		s.Equal("post-6", page.Posts[0].Title)
		s.False(page.Pagination.HasNext)
		s.True(page.Pagination.HasPrev)
	})

	s.Run("page beyond the end is empty, not nil", func() {
		page, err := s.store.Page(s.ctx, models.PageQuery{Page: 9, Limit: 5})
		s.Require().NoError(err)
		s.NotNil(page.Posts)
		s.Empty(page.Posts)
		s.Equal(7, page.Pagination.TotalPosts)
	})
}

func (s *InMemoryPostStoreSuite) TestUpdateInPlace() {
	post := s.create("draft")
	later := s.now.Add(time.Hour)

	updated, err := s.store.Update(s.ctx, post.ID, func(p *models.Post) {
		p.Title = "final"
		p.UpdatedAt = &later
	})
	s.Require().NoError(err)
	s.Equal("final", updated.Title)
	s.Equal("draft body", updated.Content)

	stored, err := s.store.FindByID(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal("final", stored.Title)
	s.Require().NotNil(stored.UpdatedAt)
	s.True(later.Equal(*stored.UpdatedAt))

	_, err = s.store.Update(s.ctx, 42, func(*models.Post) {})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryPostStoreSuite) TestDeleteReturnsRemovedRecord() {
	s.create("keep")
	gone := s.create("gone")

	removed, err := s.store.Delete(s.ctx, gone.ID)
	s.Require().NoError(err)
	s.Equal(*gone, *removed)

	_, err = s.store.FindByID(s.ctx, gone.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	_, err = s.store.Delete(s.ctx, gone.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryPostStoreSuite) TestReadsDoNotAliasStoredRecords() {
	post := s.create("original")
	later := s.now.Add(time.Minute)
	_, err := s.store.Update(s.ctx, post.ID, func(p *models.Post) { p.UpdatedAt = &later })
	s.Require().NoError(err)

	found, err := s.store.FindByID(s.ctx, post.ID)
	s.Require().NoError(err)
	found.Title = "mutated"
	*found.UpdatedAt = s.now.Add(-time.Hour)

	again, err := s.store.FindByID(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal("original", again.Title)
	s.True(later.Equal(*again.UpdatedAt))
}

func (s *InMemoryPostStoreSuite) TestConcurrentCreatesGetDistinctIDs() {
	const workers = 50
	var wg sync.WaitGroup
	ids := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.store.Create(s.ctx, &models.Post{Title: "t", Content: "c"})
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, workers)
}

func (s *InMemoryPostStoreSuite) TestSeedDemoPosts() {
	seeded, err := SeedDemoPosts(s.ctx, s.store, []int64{1, 2}, s.now)
	s.Require().NoError(err)
	s.Require().Len(seeded, 2)
	s.Equal("First Post", seeded[0].Title)
	s.Equal("John", seeded[0].Author)
	s.Equal(int64(1), seeded[0].AuthorID)
	s.Equal("Second Post", seeded[1].Title)
	s.Equal(int64(2), seeded[1].AuthorID)

	next := s.create("third")
	s.Equal(int64(3), next.ID)

	_, err = SeedDemoPosts(s.ctx, New(), []int64{1}, s.now)
	s.Error(err)
}
