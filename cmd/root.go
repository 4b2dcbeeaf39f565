package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"video-thumbnail/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "video-thumbnail",
	Short: "Extract still-image thumbnails from videos",
	Long: `video-thumbnail extracts a frame from a local or remote video at a time
offset, optionally scales it, and encodes it as JPEG, PNG or WEBP.

  - file: write the thumbnail to disk and print its path
  - data: write the encoded bytes to stdout or --out
  - serve: accept the same calls over HTTP

Example:
  video-thumbnail file --video /videos/clip.mp4 --time-ms 1500 --max-width 320`,
	SilenceUsage: true,
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	// A missing file means defaults; a broken one is reported by commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("config %s: %w", cfgFile, cfgErr)
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
