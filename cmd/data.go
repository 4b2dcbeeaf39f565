package cmd

import (
	"context"
	"fmt"
	"os"

	"video-thumbnail/application/channel"
	"video-thumbnail/domain/thumbnail"
	"video-thumbnail/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	dataFlags   thumbnailFlags
	dataOutPath string
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Print the encoded bytes of a video thumbnail",
	Long: `Extract a frame from a video and write the encoded image bytes to stdout,
or to --out when given.

Example:
  video-thumbnail data --video https://example.com/clip.mp4 --header "Authorization=Bearer x" --format webp > thumb.webp`,
	RunE: runData,
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataFlags.register(dataCmd, false)
	dataCmd.Flags().StringVar(&dataOutPath, "out", "", "Write the bytes to this file instead of stdout")
}

func runData(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	mc, err := dataFlags.fromCommand(cmd, channel.MethodData)
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

	return RunDataWithDependencies(cmd.Context(), comps.handler, mc, dataOutPath, filesystem.NewWriter(), os.Stdout)
}

// RunDataWithDependencies runs the data command with injected dependencies (for testing).
// Bytes go to output unless outPath is set.
func RunDataWithDependencies(
	ctx context.Context,
	invoker MethodInvoker,
	mc channel.MethodCall,
	outPath string,
	writer thumbnail.FileWriter,
	output OutputWriter,
) error {
	value, err := await(ctx, invoker, mc)
	if err != nil {
		return err
	}

	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected result type %T", value)
	}

	if outPath == "" {
		_, err := output.Write(data)
		return err
	}

	if err := writer.Write(outPath, data); err != nil {
		return err
	}
	fmt.Fprintf(output, "Wrote %d bytes to %s\n", len(data), outPath)
	return nil
}
