package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetAccessToken() string
	SetAccessToken(token string)
	AuthHeader() map[string]string
	Unique(name string) string
}

// RegisterSteps registers authentication-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	// Account steps
	ctx.Step(`^I register a new user "([^"]*)" with password "([^"]*)"$`, steps.registerUnique)
	ctx.Step(`^I register user "([^"]*)" with email "([^"]*)" and password "([^"]*)"$`, steps.register)
	ctx.Step(`^I log in with email "([^"]*)" and password "([^"]*)"$`, steps.login)
	ctx.Step(`^I save the token$`, steps.saveToken)

	// Profile steps
	ctx.Step(`^I request my profile$`, steps.requestProfile)
	ctx.Step(`^I request my profile with token "([^"]*)"$`, steps.requestProfileWithToken)
	ctx.Step(`^I request my profile with authorization header "([^"]*)"$`, steps.requestProfileWithHeader)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) registerUnique(ctx context.Context, username, password string) error {
	name := s.tc.Unique(username)
	return s.register(ctx, name, name+"@example.com", password)
}

func (s *authSteps) register(ctx context.Context, username, email, password string) error {
	body := map[string]interface{}{
		"username": username,
		"email":    email,
		"password": password,
	}
	return s.tc.POST("/api/auth/register", body, nil)
}

func (s *authSteps) login(ctx context.Context, email, password string) error {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	return s.tc.POST("/api/auth/login", body, nil)
}

func (s *authSteps) saveToken(ctx context.Context) error {
	token, err := s.tc.GetResponseField("token")
	if err != nil {
		return err
	}
	str, ok := token.(string)
	if !ok || str == "" {
		return fmt.Errorf("token missing from response")
	}
	s.tc.SetAccessToken(str)
	return nil
}

func (s *authSteps) requestProfile(ctx context.Context) error {
	return s.tc.GET("/api/auth/profile", s.tc.AuthHeader())
}

func (s *authSteps) requestProfileWithToken(ctx context.Context, token string) error {
	return s.tc.GET("/api/auth/profile", map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func (s *authSteps) requestProfileWithHeader(ctx context.Context, header string) error {
	return s.tc.GET("/api/auth/profile", map[string]string{
		"Authorization": header,
	})
}
