package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/histogram"
)

// pipeline runs both phases, reusing a cached histogram whenever the fractal
// configuration's fingerprint matches one generated before.
type pipeline struct {
	gen      fractatoe.Generator
	rend     fractatoe.Renderer
	cacheDir string
	force    bool
}

func (p pipeline) histogramPath(cfg fractatoe.FractalConfig) string {
	return filepath.Join(p.cacheDir, cfg.Fingerprint()+".histogram.gz")
}

func (p pipeline) run(ctx context.Context, fcfg fractatoe.FractalConfig, rcfg fractatoe.RenderingConfig, out string) error {
	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return fractatoe.WrapIO("create cache directory", err)
	}
	path := p.histogramPath(fcfg)

	if p.force || !p.cached(path, fcfg.Fingerprint()) {
		fractatoe.Logger().Info("generating histogram", "path", path)
		if err := p.gen.GenerateFile(ctx, fcfg, path); err != nil {
			return err
		}
	}
	return p.rend.RenderFile(path, rcfg, out)
}

// cached reports whether path holds a valid histogram generated from the
// configuration with the given fingerprint.
func (p pipeline) cached(path, fingerprint string) bool {
	log := fractatoe.Logger()
	h, err := histogram.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false
	case err != nil:
		log.Warn("discarding unreadable cached histogram", "path", path, "err", err)
		return false
	case h.Fingerprint != fingerprint:
		log.Warn("discarding cached histogram with mismatched fingerprint", "path", path, "fingerprint", h.Fingerprint)
		return false
	}
	log.Info("reusing cached histogram", "path", path)
	return true
}
