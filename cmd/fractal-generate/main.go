// fractal-generate samples an escape-time fractal described by a JSON
// configuration and writes the resulting histogram artifact.
//
// With --progress-addr it also serves a websocket feed at /ws that pushes a
// JSON progress event after every finished band of rows.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/histogram"
	"github.com/marben/fractatoe/internal/cli"
)

func main() {
	if err := run(); err != nil {
		os.Exit(cli.Report(os.Stderr, "fractal-generate", err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newCommand().ExecuteContext(ctx)
}

type options struct {
	cli.Flags
	workers      int
	progressAddr string
}

func newCommand() *cobra.Command {
	var o options
	cmd := cli.Command(&cobra.Command{
		Use:   "fractal-generate <fractal_config.json> <output.histogram>",
		Short: "Sample an escape-time fractal into a histogram artifact",
		Long: "Sample an escape-time fractal into a histogram artifact.\n\n" +
			"The artifact is written atomically; a path ending in .gz is gzip-compressed.",
		Args: cli.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.generate(cmd.Context(), cmd.ErrOrStderr(), args[0], args[1])
		},
	})
	o.Register(cmd.Flags())
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "number of concurrent workers (default: config value, then GOMAXPROCS)")
	cmd.Flags().StringVar(&o.progressAddr, "progress-addr", "", "serve a websocket progress feed at this address, e.g. :8080")
	return cmd
}

func (o *options) generate(ctx context.Context, stderr io.Writer, cfgPath, outPath string) (err error) {
	log := o.SetupLogging(stderr)
	if o.workers < 0 {
		return cli.Usage(fmt.Errorf("--workers must not be negative, got %d", o.workers))
	}

	cfg, err := fractatoe.LoadFractalConfig(cfgPath)
	if err != nil {
		return err
	}
	var opts []histogram.Option
	if o.workers > 0 {
		opts = append(opts, histogram.WithWorkers(o.workers))
	}

	n := cfg.Normalize()
	total := n.Width * n.Height
	progress := func(done, total int) {
		log.Debug("progress", "done", cli.Percent(done, total))
	}

	if o.progressAddr != "" {
		hub := newProgressHub()
		stop, serr := serveProgress(o.progressAddr, hub)
		if serr != nil {
			return serr
		}
		defer stop()
		logOnly := progress
		progress = func(done, total int) {
			logOnly(done, total)
			hub.report(done, total)
		}
		defer func() { hub.finish(total, err) }()
	}
	opts = append(opts, histogram.WithProgress(progress))

	start := time.Now()
	h, err := histogram.Generate(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	if err = histogram.WriteFile(outPath, h); err != nil {
		return err
	}
	log.Info("generation complete",
		"samples", cli.Count(h.Pixels()),
		"escaped", cli.Count(h.Escaped()),
		"bounded", cli.Count(h.Bounded),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"output", outPath)
	return nil
}

// serveProgress starts the progress feed on addr. The returned func shuts the
// server down once open subscribers have seen the final event.
func serveProgress(addr string, hub *progressHub) (func(), error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fractatoe.WrapIO("progress feed", err)
	}
	srv := progressServer(addr, hub)
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fractatoe.Logger().Error("progress feed stopped", "err", err)
		}
	}()
	fractatoe.Logger().Info("serving progress feed", "url", "ws://"+l.Addr().String()+"/ws")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		hub.drain(ctx)
	}, nil
}
