//go:build !js

package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/inamate/engrave/internal/notation"
	"github.com/inamate/engrave/internal/raster"
)

// RenderPNG rasterises the page and writes it to w as PNG.
func (e *Engine) RenderPNG(w io.Writer) error {
	if e.tree == nil {
		return ErrNoDocument
	}
	width, height := e.PageSize()
	rc, err := raster.New(width, height, e.scale)
	if errors.Is(err, raster.ErrCanvasTooLarge) {
		return fmt.Errorf("%w: %v", notation.ErrInvalidScore, err)
	}
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := e.Draw(rc); err != nil {
		return err
	}
	if err := rc.Err(); err != nil {
		return fmt.Errorf("draw page: %w", err)
	}
	return rc.EncodePNG(w)
}
