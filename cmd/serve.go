package cmd

import (
	"video-thumbnail/application/channel"
	"video-thumbnail/infrastructure/httpchannel"
	"video-thumbnail/infrastructure/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve thumbnail method calls over HTTP",
	Long: `Start an HTTP server that accepts the file and data method calls.

  POST /v1/methods/file   {"video": "...", "thumbnailPath": "...", "imageFormat": 0, ...}
  POST /v1/methods/data   same arguments without thumbnailPath; result is base64
  GET  /healthz
  GET  /metrics           Prometheus metrics

Example:
  video-thumbnail serve --address :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (default from config server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	address := cfg.Server.Address
	if serveAddress != "" {
		address = serveAddress
	}

	comps, err := buildComponents(cmd.Context(), cfg, channel.WithObserver(metrics.NewObserver()))
	if err != nil {
		return err
	}
	defer comps.close()

	comps.logger.Info("serving thumbnails",
		zap.String("decoder", cfg.Decoder.Backend),
		zap.String("webp_encoder", cfg.Encoder.WebP),
		zap.Int("max_concurrency", cfg.Worker.MaxConcurrency),
	)

	server := httpchannel.NewServer(address, comps.handler,
		httpchannel.WithLogger(comps.logger),
		httpchannel.WithAllowOrigins(cfg.Server.AllowOrigins),
	)
	return server.Run(cmd.Context())
}
