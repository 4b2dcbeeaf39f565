package cmd

import (
	"context"
	"fmt"
	"os"

	"video-thumbnail/application/channel"

	"github.com/spf13/cobra"
)

var fileFlags thumbnailFlags

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Write a thumbnail of a video to disk",
	Long: `Extract a frame from a video and write it as an image file.

Without --path the thumbnail is written next to a local video with the image
extension, or into the cache directory for remote videos. A --path ending in
the image extension is used as the file name; any other --path is treated as
a directory.

Example:
  video-thumbnail file --video /videos/clip.mp4 --path /tmp/ --format png --max-width 320`,
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileFlags.register(fileCmd, true)
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	mc, err := fileFlags.fromCommand(cmd, channel.MethodFile)
	if err != nil {
		return err
	}

	looper := channel.NewLooper(1)
	defer looper.Close()

	comps, err := buildComponents(cmd.Context(), cfg, channel.WithCallbackExecutor(looper))
	if err != nil {
		return err
	}
	defer comps.close()

	return RunFileWithDependencies(cmd.Context(), comps.handler, mc, os.Stdout)
}

// RunFileWithDependencies runs the file command with injected dependencies (for testing)
func RunFileWithDependencies(ctx context.Context, invoker MethodInvoker, mc channel.MethodCall, output OutputWriter) error {
	value, err := await(ctx, invoker, mc)
	if err != nil {
		return err
	}

	path, ok := value.(string)
	if !ok {
		return fmt.Errorf("unexpected result type %T", value)
	}

	fmt.Fprintln(output, path)
	return nil
}
