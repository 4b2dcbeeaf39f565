//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-thumbnail/cmd"
	"video-thumbnail/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	dir        string
	configPath string
	cfg        *config.Config
	output     *bytes.Buffer
	cmdErr     error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "config-feature-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			dir:        dir,
			configPath: filepath.Join(dir, "config", "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil {
			os.RemoveAll(SharedConfigContext.dir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, iSetTo)
	ctx.Step(`^the decoder backend should be "([^"]*)"$`, theDecoderBackendShouldBe)
	ctx.Step(`^the default quality should be (\d+)$`, theDefaultQualityShouldBe)
	ctx.Step(`^"([^"]*)" should be "([^"]*)"$`, keyShouldBe)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, theConfigCommandShouldFailWith)
}

func noConfigurationFileExists() error {
	if _, err := os.Stat(SharedConfigContext.configPath); err == nil {
		return fmt.Errorf("unexpected config file at %s", SharedConfigContext.configPath)
	}
	return nil
}

func iLoadTheConfiguration() error {
	cfg, err := config.LoadOrDefault(SharedConfigContext.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	SharedConfigContext.cfg = cfg
	return nil
}

func iSetTo(key, value string) error {
	c := SharedConfigContext
	cfg := c.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	c.cmdErr = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, c.output)
	return nil
}

func theDecoderBackendShouldBe(expected string) error {
	if got := SharedConfigContext.cfg.Decoder.Backend; got != expected {
		return fmt.Errorf("expected decoder backend %q, got %q", expected, got)
	}
	return nil
}

func theDefaultQualityShouldBe(expected int) error {
	if got := SharedConfigContext.cfg.Defaults.Quality; got != expected {
		return fmt.Errorf("expected default quality %d, got %d", expected, got)
	}
	return nil
}

func keyShouldBe(key, expected string) error {
	var out bytes.Buffer
	if err := cmd.RunConfigGetWithDependencies(SharedConfigContext.cfg, key, &out); err != nil {
		return err
	}
	if got := strings.TrimSpace(out.String()); got != expected {
		return fmt.Errorf("expected %s = %q, got %q", key, expected, got)
	}
	return nil
}

func theConfigCommandShouldFailWith(text string) error {
	err := SharedConfigContext.cmdErr
	if err == nil || !strings.Contains(err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, err)
	}
	return nil
}
