// fractatoe generates a fractal histogram and renders it in one go. Histograms
// are cached by configuration fingerprint, so re-rendering the same fractal
// with another palette skips the expensive generation phase.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/histogram"
	"github.com/marben/fractatoe/internal/cli"
	"github.com/marben/fractatoe/render"
)

func main() {
	if err := run(); err != nil {
		os.Exit(cli.Report(os.Stderr, "fractatoe", err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newCommand().ExecuteContext(ctx)
}

type options struct {
	cli.Flags
	cacheDir string
	force    bool
	workers  int
}

func newCommand() *cobra.Command {
	var o options
	cmd := cli.Command(&cobra.Command{
		Use:   "fractatoe <fractal_config.json> <rendering_config.json> <output>",
		Short: "Generate and render a fractal, caching the histogram",
		Args:  cli.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.ErrOrStderr(), args[0], args[1], args[2])
		},
	})
	o.Register(cmd.Flags())
	cmd.Flags().StringVar(&o.cacheDir, "cache-dir", filepath.Join(os.TempDir(), "fractatoe_histogram"), "directory holding cached histograms")
	cmd.Flags().BoolVarP(&o.force, "force", "f", false, "regenerate the histogram even when a cached one matches")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "number of concurrent workers (default: config value, then GOMAXPROCS)")
	return cmd
}

func (o *options) run(ctx context.Context, stderr io.Writer, fractalPath, renderPath, out string) error {
	log := o.SetupLogging(stderr)

	fcfg, err := fractatoe.LoadFractalConfig(fractalPath)
	if err != nil {
		return err
	}
	rcfg, err := fractatoe.LoadRenderingConfig(renderPath)
	if err != nil {
		return err
	}
	// Reject a bad rendering config before paying for generation.
	rcfg.Output = out
	if err := rcfg.Validate(); err != nil {
		return err
	}
	if _, err := render.NewPalette(rcfg); err != nil {
		return err
	}

	var gen histogram.FileGenerator
	if o.workers > 0 {
		gen.Options = append(gen.Options, histogram.WithWorkers(o.workers))
	}
	p := pipeline{
		gen:      gen,
		rend:     render.FileRenderer{},
		cacheDir: o.cacheDir,
		force:    o.force,
	}

	start := time.Now()
	if err := p.run(ctx, fcfg, rcfg, out); err != nil {
		return err
	}
	log.Info("done", "elapsed", time.Since(start).Round(time.Millisecond), "output", out)
	return nil
}
