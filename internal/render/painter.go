//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter blits a cell buffer to the screen through an offscreen image
// of one pixel per cell.
type GridPainter struct {
	w   int
	h   int
	img *ebiten.Image
	buf []byte
}

// NewGridPainter allocates a painter for a w by h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:   w,
		h:   h,
		img: ebiten.NewImage(w, h),
		buf: make([]byte, 4*w*h),
	}
}

// Blit draws cells colored by palette, scaled by scale.
func (p *GridPainter) Blit(screen *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	if len(cells) != p.w*p.h {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	FillPaletteRGBA(p.buf, cells, palette)
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}
