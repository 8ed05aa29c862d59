package posts

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}, headers map[string]string) error
	PUT(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	DELETE(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	AuthHeader() map[string]string
	GetSavedPostID() string
	SetSavedPostID(id string)
}

// RegisterSteps registers post-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &postSteps{tc: tc}

	ctx.Step(`^I create a post titled "([^"]*)" with content "([^"]*)"$`, steps.createPost)
	ctx.Step(`^I create a post titled "([^"]*)" with content "([^"]*)" without a token$`, steps.createPostAnonymously)
	ctx.Step(`^I save the post id$`, steps.savePostID)
	ctx.Step(`^I fetch the saved post$`, steps.fetchSavedPost)
	ctx.Step(`^I update the saved post title to "([^"]*)"$`, steps.updateSavedPostTitle)
	ctx.Step(`^I delete the saved post$`, steps.deleteSavedPost)
	ctx.Step(`^I list posts with page "([^"]*)" and limit "([^"]*)"$`, steps.listPosts)
}

type postSteps struct {
	tc TestContext
}

func (s *postSteps) createPost(ctx context.Context, title, content string) error {
	body := map[string]interface{}{
		"title":   title,
		"content": content,
	}
	return s.tc.POST("/api/posts", body, s.tc.AuthHeader())
}

func (s *postSteps) createPostAnonymously(ctx context.Context, title, content string) error {
	body := map[string]interface{}{
		"title":   title,
		"content": content,
	}
	return s.tc.POST("/api/posts", body, nil)
}

func (s *postSteps) savePostID(ctx context.Context) error {
	id, err := s.tc.GetResponseField("data.id")
	if err != nil {
		return err
	}
	n, ok := id.(float64)
	if !ok {
		return fmt.Errorf("data.id is not a number: %v", id)
	}
	s.tc.SetSavedPostID(fmt.Sprintf("%d", int64(n)))
	return nil
}

func (s *postSteps) fetchSavedPost(ctx context.Context) error {
	return s.tc.GET("/api/posts/"+s.tc.GetSavedPostID(), nil)
}

func (s *postSteps) updateSavedPostTitle(ctx context.Context, title string) error {
	body := map[string]interface{}{
		"title": title,
	}
	return s.tc.PUT("/api/posts/"+s.tc.GetSavedPostID(), body, s.tc.AuthHeader())
}

func (s *postSteps) deleteSavedPost(ctx context.Context) error {
	return s.tc.DELETE("/api/posts/"+s.tc.GetSavedPostID(), s.tc.AuthHeader())
}

func (s *postSteps) listPosts(ctx context.Context, page, limit string) error {
	return s.tc.GET(fmt.Sprintf("/api/posts?page=%s&limit=%s", page, limit), nil)
}
