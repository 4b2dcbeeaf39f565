//go:build integration

package features

import (
	"os"
	"testing"

	"video-thumbnail/features/steps"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

// TestFeatures runs every scenario under features/. GODOG_TAGS narrows the
// run, e.g. GODOG_TAGS=@config, and GODOG_FORMAT switches the reporter.
func TestFeatures(t *testing.T) {
	format := os.Getenv("GODOG_FORMAT")
	if format == "" {
		format = "pretty"
	}

	opts := godog.Options{
		Format:   format,
		Output:   colors.Colored(os.Stdout),
		Paths:    []string{"./"},
		Tags:     os.Getenv("GODOG_TAGS"),
		Strict:   true,
		TestingT: t,
	}

	suite := godog.TestSuite{
		Name:                "video-thumbnail",
		ScenarioInitializer: initializeScenarios,
		Options:             &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func initializeScenarios(ctx *godog.ScenarioContext) {
	steps.InitializeConfigScenario(ctx)
	steps.InitializeThumbnailScenario(ctx)
}
