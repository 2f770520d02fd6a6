//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"wildfire/internal/core"
	"wildfire/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type heatMaskProvider interface {
	HeatMask() []float32
}

type windFieldProvider interface {
	WindVectorAt(x, y float64) (float64, float64)
}

type elevationFieldProvider interface {
	ElevationField() []int16
}

// Overlay draws optional debugging visuals on top of the fire view.
type Overlay struct {
	sim      core.Sim
	scale    int
	showHeat bool
	showWind bool
	showElev bool

	heatImg *ebiten.Image
	heatBuf []byte

	elevationImg *ebiten.Image
	elevationBuf []byte

	pixel          *ebiten.Image
	windSamples    []windSample
	windCacheW     int
	windCacheH     int
	windCacheScale int
	windPixelSpan  float64
}

type windSample struct {
	cx float64
	cy float64
	sx float64
	sy float64
}

// NewOverlay constructs an overlay for sim drawn at the given scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale, showWind: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 heat, 2 wind, 3 elevation.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWind = !o.showWind
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showElev = !o.showElev
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showElev {
		if provider, ok := o.sim.(elevationFieldProvider); ok {
			o.drawElevation(screen, provider.ElevationField(), size)
		}
	}
	if o.showHeat {
		if provider, ok := o.sim.(heatMaskProvider); ok {
			o.drawHeat(screen, provider.HeatMask(), size)
		}
	}
	if o.showWind {
		if provider, ok := o.sim.(windFieldProvider); ok {
			o.drawWindField(screen, provider, size)
		}
	}
}

func (o *Overlay) drawHeat(screen *ebiten.Image, mask []float32, size core.Size) {
	total := size.W * size.H
	if len(mask) != total {
		return
	}
	o.heatImg, o.heatBuf = ensureImage(o.heatImg, o.heatBuf, size)
	render.FillMaskRGBA(o.heatBuf, mask, color.RGBA{R: 255, G: 120, B: 40}, 160)
	o.heatImg.WritePixels(o.heatBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.heatImg, op)
}

func (o *Overlay) drawWindField(screen *ebiten.Image, provider windFieldProvider, size core.Size) {
	if !o.ensureWindSamples(size) {
		return
	}

	const (
		calmThreshold    = 0.05
		maxSpeedEstimate = 1.1
		headAngle        = math.Pi / 6
		minThickness     = 0.65
		maxThickness     = 1.05
	)

	scale := float64(o.scale)
	minLength := o.windPixelSpan * 0.35
	maxLength := o.windPixelSpan * 0.7
	calmDot := math.Max(o.windPixelSpan*0.18, scale*0.75)

	for _, sample := range o.windSamples {
		vx, vy := provider.WindVectorAt(sample.cx, sample.cy)
		speed := math.Hypot(vx, vy)
		if speed < calmThreshold {
			o.drawPoint(screen, sample.sx, sample.sy, calmDot, color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}

		nx, ny := vx/speed, vy/speed
		normalized := clamp01(speed / maxSpeedEstimate)
		length := minLength + (maxLength-minLength)*math.Sqrt(normalized)
		headLength := math.Min(length*0.3, scale*4.5)
		tailLength := length * 0.4
		tipX := sample.sx + nx*(length-tailLength)
		tipY := sample.sy + ny*(length-tailLength)
		thickness := math.Max(scale*(minThickness+(maxThickness-minThickness)*normalized), 1)

		col := windColor(normalized)
		o.drawLine(screen, sample.sx-nx*tailLength, sample.sy-ny*tailLength,
			tipX-nx*headLength, tipY-ny*headLength, thickness, col)

		angle := math.Atan2(ny, nx)
		for _, side := range []float64{headAngle, -headAngle} {
			o.drawLine(screen, tipX, tipY,
				tipX-math.Cos(angle+side)*headLength, tipY-math.Sin(angle+side)*headLength,
				thickness*0.85, col)
		}
	}
}

// ensureWindSamples lays out an evenly spaced arrow grid for the viewport. The
// layout is cached until the size changes.
func (o *Overlay) ensureWindSamples(size core.Size) bool {
	if o.windCacheW == size.W && o.windCacheH == size.H && o.windCacheScale == o.scale && len(o.windSamples) > 0 {
		return true
	}

	const (
		targetSamples = 360.0
		minSpacing    = 6
		maxSpacing    = 20
	)

	spacing := int(math.Sqrt(float64(size.W*size.H) / targetSamples))
	spacing = min(max(spacing, minSpacing), maxSpacing)

	countX := (size.W + spacing - 1) / spacing
	countY := (size.H + spacing - 1) / spacing
	startX := max((size.W-1-(countX-1)*spacing)/2, 0)
	startY := max((size.H-1-(countY-1)*spacing)/2, 0)

	o.windSamples = o.windSamples[:0]
	for yi := 0; yi < countY; yi++ {
		cy := float64(min(startY+yi*spacing, size.H-1)) + 0.5
		for xi := 0; xi < countX; xi++ {
			cx := float64(min(startX+xi*spacing, size.W-1)) + 0.5
			o.windSamples = append(o.windSamples, windSample{
				cx: cx,
				cy: cy,
				sx: cx * float64(o.scale),
				sy: cy * float64(o.scale),
			})
		}
	}

	o.windCacheW = size.W
	o.windCacheH = size.H
	o.windCacheScale = o.scale
	o.windPixelSpan = float64(spacing * o.scale)
	return len(o.windSamples) > 0
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

// drawElevation shades terrain height, darkening flat ground so slopes stand
// out.
func (o *Overlay) drawElevation(screen *ebiten.Image, field []int16, size core.Size) {
	total := size.W * size.H
	if len(field) != total || total == 0 {
		return
	}
	o.elevationImg, o.elevationBuf = ensureImage(o.elevationImg, o.elevationBuf, size)

	lo, hi := field[0], field[0]
	for _, v := range field {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := math.Max(float64(hi)-float64(lo), 1)

	at := func(x, y int) int { return int(field[y*size.W+x]) }
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			idx := y*size.W + x
			h := at(x, y)
			col := elevationColor(float64(h-int(lo)) / span)

			steepest := 0
			if x > 0 {
				steepest = max(steepest, absInt(h-at(x-1, y)))
			}
			if x+1 < size.W {
				steepest = max(steepest, absInt(h-at(x+1, y)))
			}
			if y > 0 {
				steepest = max(steepest, absInt(h-at(x, y-1)))
			}
			if y+1 < size.H {
				steepest = max(steepest, absInt(h-at(x, y+1)))
			}
			alpha := float64(col.A) * (0.55 + 0.45*clamp01(float64(steepest)/span))

			base := idx * 4
			o.elevationBuf[base+0] = col.R
			o.elevationBuf[base+1] = col.G
			o.elevationBuf[base+2] = col.B
			o.elevationBuf[base+3] = uint8(math.Round(math.Min(alpha, 255)))
		}
	}

	o.elevationImg.WritePixels(o.elevationBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.elevationImg, op)
}

func ensureImage(img *ebiten.Image, buf []byte, size core.Size) (*ebiten.Image, []byte) {
	if img == nil || img.Bounds().Dx() != size.W || img.Bounds().Dy() != size.H {
		img = ebiten.NewImage(size.W, size.H)
	}
	if len(buf) != 4*size.W*size.H {
		buf = make([]byte, 4*size.W*size.H)
	}
	return img, buf
}

func windColor(t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: uint8(math.Round(80 + 70*t)),
		G: uint8(math.Round(170 + 70*t)),
		B: uint8(math.Round(230 + 20*t)),
		A: uint8(math.Round(150 + 90*t)),
	}
}

func elevationColor(t float64) color.RGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 150}},
		{0.25, color.RGBA{R: 70, G: 105, B: 160, A: 165}},
		{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 185}},
		{0.75, color.RGBA{R: 190, G: 160, B: 80, A: 205}},
		{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 215}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			return lerpRGBA(prev.col, curr.col, (t-prev.t)/(curr.t-prev.t))
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
