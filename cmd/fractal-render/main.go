// fractal-render turns a histogram artifact into an image using a JSON
// rendering configuration.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/internal/cli"
	"github.com/marben/fractatoe/render"
)

func main() {
	if err := run(); err != nil {
		os.Exit(cli.Report(os.Stderr, "fractal-render", err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newCommand().ExecuteContext(ctx)
}

type options struct {
	cli.Flags
	output string
	format string
}

func newCommand() *cobra.Command {
	var o options
	cmd := cli.Command(&cobra.Command{
		Use:   "fractal-render <input.histogram> <rendering_config.json>",
		Short: "Render a histogram artifact with histogram-equalized colouring",
		Long: "Render a histogram artifact with histogram-equalized colouring.\n\n" +
			"The output path is taken from -o, then from the config's \"output\" key,\n" +
			"and defaults to the histogram path with the image extension.",
		Args: cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.render(cmd.ErrOrStderr(), args[0], args[1])
		},
	})
	o.Register(cmd.Flags())
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output image path")
	cmd.Flags().StringVar(&o.format, "format", "", "output format: png, jpeg, tiff or bmp (default: from the output extension)")
	return cmd
}

func (o *options) render(stderr io.Writer, histPath, cfgPath string) error {
	log := o.SetupLogging(stderr)

	cfg, err := fractatoe.LoadRenderingConfig(cfgPath)
	if err != nil {
		return err
	}
	if o.format != "" {
		cfg.Format = fractatoe.Format(o.format)
	}
	out := o.output
	if out == "" {
		out = cfg.Output
	}
	if out == "" {
		out = defaultOutput(histPath, cfg.Normalize().Format)
	}

	start := time.Now()
	if err := render.RenderFile(histPath, cfg, out); err != nil {
		return err
	}
	log.Info("rendering complete", "elapsed", time.Since(start).Round(time.Millisecond), "output", out)
	return nil
}

// defaultOutput swaps the artifact extension of histPath for the image one.
func defaultOutput(histPath string, f fractatoe.Format) string {
	base := strings.TrimSuffix(histPath, ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	ext := "." + string(f)
	switch f {
	case fractatoe.FormatJPEG:
		ext = ".jpg"
	case fractatoe.FormatTIFF:
		ext = ".tiff"
	}
	return base + ext
}
