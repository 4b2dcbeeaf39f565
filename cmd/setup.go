package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"video-thumbnail/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing the ffmpeg executable, the frame
decoder and WEBP encoder backends, the cache directory for remote videos,
the worker pool size and the default image format.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = "config/config.yaml"
	}
	return RunSetupWithPrompter(DefaultPrompter, path)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to video-thumbnail setup!")
	fmt.Println()

	cfg := config.Default()

	if err := promptBackends(prompter, cfg); err != nil {
		return err
	}
	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptWorker(prompter, cfg); err != nil {
		return err
	}
	if err := promptDefaults(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptBackends(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to the ffmpeg executable?", cfg.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.FFmpeg.Path = ffmpegPath
	}

	decoder, err := prompter.Select("Frame decoder?",
		[]string{config.BackendFFmpeg, config.BackendOpenCV}, cfg.Decoder.Backend)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Decoder.Backend = decoder

	webp, err := prompter.Select("WEBP encoder?",
		[]string{config.BackendFFmpeg, config.BackendVips}, cfg.Encoder.WebP)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Encoder.WebP = webp

	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	cacheDir, err := prompter.Input("Where should thumbnails of remote videos go? (empty for the user cache directory)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Paths.CacheDirectory = cacheDir
	return nil
}

func promptWorker(prompter Prompter, cfg *config.Config) error {
	limit, err := prompter.Input("Maximum concurrent extractions? (0 for unbounded)", "0")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if limit == "" {
		limit = "0"
	}
	n, err := strconv.Atoi(limit)
	if err != nil || n < 0 {
		return fmt.Errorf("max concurrency must be a non-negative integer")
	}
	cfg.Worker.MaxConcurrency = n

	address, err := prompter.Input("HTTP listen address for serve?", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if address != "" {
		cfg.Server.Address = address
	}
	return nil
}

func promptDefaults(prompter Prompter, cfg *config.Config) error {
	format, err := prompter.Select("Default image format?", []string{"jpeg", "png", "webp"}, cfg.Defaults.Format)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Defaults.Format = format

	quality, err := prompter.Input("Default quality for JPEG and WEBP (0-100)?", strconv.Itoa(cfg.Defaults.Quality))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if quality == "" {
		return nil
	}
	q, err := strconv.Atoi(quality)
	if err != nil || q < 0 || q > 100 {
		return fmt.Errorf("quality must be an integer between 0 and 100")
	}
	cfg.Defaults.Quality = q
	return nil
}
