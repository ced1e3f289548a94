package histogram

import (
	"compress/flate"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/internal/atomicfile"
)

const (
	formatTag     = "fractatoe-histogram"
	formatVersion = 1
)

// document is the persisted form of a Histogram. It carries its own
// resolution and format version so that it can be loaded by any process.
type document struct {
	Format        string    `json:"format"`
	Version       int       `json:"version"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	MaxIterations int       `json:"max_iterations"`
	Smooth        bool      `json:"smooth"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
	Frequencies   []uint64  `json:"frequencies"`
	Bounded       uint64    `json:"bounded"`
	Counts        []int32   `json:"counts"`
	Values        []float64 `json:"values,omitempty"`
}

// Encode writes h to w. Inconsistent histograms are refused with ErrFormat.
func Encode(w io.Writer, h *Histogram) error {
	if err := h.Validate(); err != nil {
		return err
	}
	doc := document{
		Format:        formatTag,
		Version:       formatVersion,
		Width:         h.Width,
		Height:        h.Height,
		MaxIterations: h.MaxIterations,
		Smooth:        h.Smooth,
		Fingerprint:   h.Fingerprint,
		Frequencies:   h.Frequencies,
		Bounded:       h.Bounded,
		Counts:        h.Counts,
		Values:        h.Values,
	}
	return json.NewEncoder(w).Encode(&doc)
}

// Decode reads a histogram written by Encode and validates it before
// returning. Structural problems are reported as ErrFormat.
func Decode(r io.Reader) (*Histogram, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, decodeError("decode histogram", err)
	}
	if doc.Format != formatTag {
		return nil, fractatoe.Errorf(fractatoe.ErrFormat, "not a histogram artifact (format %q)", doc.Format)
	}
	if doc.Version != formatVersion {
		return nil, fractatoe.Errorf(fractatoe.ErrFormat, "unsupported histogram version %d", doc.Version)
	}
	h := &Histogram{
		Width:         doc.Width,
		Height:        doc.Height,
		MaxIterations: doc.MaxIterations,
		Smooth:        doc.Smooth,
		Fingerprint:   doc.Fingerprint,
		Counts:        doc.Counts,
		Values:        doc.Values,
		Frequencies:   doc.Frequencies,
		Bounded:       doc.Bounded,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// decodeError reports malformed content, including a corrupt compressed
// stream, as ErrFormat and anything else as ErrIO.
func decodeError(op string, err error) error {
	if isSyntaxError(err) {
		return fractatoe.Errorf(fractatoe.ErrFormat, "%s: %v", op, err)
	}
	return fractatoe.WrapIO(op, err)
}

func isSyntaxError(err error) bool {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	var corrupt flate.CorruptInputError
	return errors.As(err, &syntax) || errors.As(err, &typ) || errors.As(err, &corrupt) ||
		errors.Is(err, gzip.ErrChecksum) || errors.Is(err, gzip.ErrHeader) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// WriteFile persists h at path atomically; paths ending in ".gz" are
// gzip-compressed.
func WriteFile(path string, h *Histogram) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	err := atomicfile.WriteFile(path, 0o644, func(w io.Writer) error {
		if !compressed(path) {
			return Encode(w, h)
		}
		zw := gzip.NewWriter(w)
		if err := Encode(zw, h); err != nil {
			return err
		}
		return zw.Close()
	})
	if err != nil {
		return fractatoe.WrapIO("write histogram "+path, err)
	}
	fractatoe.Logger().Info("histogram written", "path", path, "pixels", h.Pixels())
	return nil
}

// ReadFile loads and validates the histogram stored at path.
func ReadFile(path string) (*Histogram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fractatoe.WrapIO("read histogram", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fractatoe.Errorf(fractatoe.ErrFormat, "%s: %v", path, err)
		}
		defer zr.Close()
		r = zr
	}

	h, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if compressed(path) {
		// The gzip trailer is only verified once the stream is read to its end.
		if _, err := io.Copy(io.Discard, r); err != nil {
			return nil, fmt.Errorf("%s: %w", path, decodeError("verify histogram", err))
		}
	}
	fractatoe.Logger().Debug("histogram loaded",
		"path", path, "width", h.Width, "height", h.Height,
		"max_iterations", h.MaxIterations, "smooth", h.Smooth)
	return h, nil
}
