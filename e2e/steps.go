package e2e

import (
	"github.com/cucumber/godog"

	"postboard/e2e/steps/auth"
	"postboard/e2e/steps/common"
	"postboard/e2e/steps/posts"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register authentication-specific steps
	auth.RegisterSteps(ctx, tc)

	// Register post-specific steps
	posts.RegisterSteps(ctx, tc)
}
