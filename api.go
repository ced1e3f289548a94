// Package fractatoe holds the types shared by the two phases of the fractal
// pipeline: generation turns a FractalConfig into a histogram artifact, and
// rendering turns that artifact plus a RenderingConfig into an image.
package fractatoe

import "context"

// Generator runs the generation phase and persists its histogram at path.
type Generator interface {
	GenerateFile(ctx context.Context, cfg FractalConfig, path string) error
}

// Renderer runs the rendering phase on the histogram stored at histPath.
type Renderer interface {
	RenderFile(histPath string, cfg RenderingConfig, outPath string) error
}
