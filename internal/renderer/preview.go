package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/vector"

	"github.com/ivlev/pathcam/internal/source"
	"github.com/ivlev/pathcam/internal/system"
)

// PreviewOptions control the top-down path preview.
type PreviewOptions struct {
	Width     int
	Height    int
	Margin    int
	LineWidth float64

	Background color.RGBA
	Path       color.RGBA
	Waypoint   color.RGBA
	Pause      color.RGBA
	Camera     color.RGBA

	// QR, when set, is encoded into a code in the bottom-right corner.
	QR     string
	QRSize int

	// Cameras are extra positions marked on the preview, e.g. sampled
	// playback states.
	Cameras []mgl64.Vec3
}

// DefaultPreviewOptions returns a 1280x720 dark preview.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Width:      1280,
		Height:     720,
		Margin:     40,
		LineWidth:  2,
		Background: color.RGBA{R: 18, G: 20, B: 26, A: 255},
		Path:       color.RGBA{R: 90, G: 180, B: 250, A: 255},
		Waypoint:   color.RGBA{R: 240, G: 240, B: 240, A: 255},
		Pause:      color.RGBA{R: 250, G: 170, B: 60, A: 255},
		Camera:     color.RGBA{R: 120, G: 230, B: 120, A: 255},
		QRSize:     128,
	}
}

// projection maps world X/Z onto image pixels, Z growing upwards.
type projection struct {
	minX, minZ float64
	scale      float64
	offX, offY float64
	height     float64
}

func newProjection(points []mgl64.Vec3, opts PreviewOptions) projection {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minZ, maxZ = math.Min(minZ, p.Z()), math.Max(maxZ, p.Z())
	}

	availW := float64(opts.Width - 2*opts.Margin)
	availH := float64(opts.Height - 2*opts.Margin)
	spanX, spanZ := maxX-minX, maxZ-minZ

	scale := 1.0
	switch {
	case spanX > 0 && spanZ > 0:
		scale = math.Min(availW/spanX, availH/spanZ)
	case spanX > 0:
		scale = availW / spanX
	case spanZ > 0:
		scale = availH / spanZ
	}

	return projection{
		minX:   minX,
		minZ:   minZ,
		scale:  scale,
		offX:   float64(opts.Margin) + (availW-spanX*scale)/2,
		offY:   float64(opts.Margin) + (availH-spanZ*scale)/2,
		height: float64(opts.Height),
	}
}

func (p projection) point(v mgl64.Vec3) (float32, float32) {
	x := p.offX + (v.X()-p.minX)*p.scale
	y := p.height - (p.offY + (v.Z()-p.minZ)*p.scale)
	return float32(x), float32(y)
}

// RenderPreview draws paths and the waypoints of ds seen from above. The
// returned image comes from the shared pool; hand it back with
// system.PutImage once encoded.
func RenderPreview(paths [][]mgl64.Vec3, ds *source.Dataset, opts PreviewOptions) (*image.RGBA, error) {
	if opts.Width <= 2*opts.Margin || opts.Height <= 2*opts.Margin {
		return nil, fmt.Errorf("preview size %dx%d too small for margin %d", opts.Width, opts.Height, opts.Margin)
	}

	var all []mgl64.Vec3
	for _, path := range paths {
		all = append(all, path...)
	}
	if ds != nil {
		all = append(all, ds.Positions...)
	}
	if len(all) == 0 {
		return nil, errors.New("nothing to preview")
	}

	img := system.GetImage(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	proj := newProjection(all, opts)
	r := vector.NewRasterizer(opts.Width, opts.Height)

	for _, path := range paths {
		for i := 1; i < len(path); i++ {
			segment(r, proj, path[i-1], path[i], opts.LineWidth)
		}
	}
	fill(r, img, opts.Path)

	if ds != nil {
		var pauses []mgl64.Vec3
		for i, pos := range ds.Positions {
			if ds.Pause(i) > 0 {
				pauses = append(pauses, pos)
				continue
			}
			dot(r, proj, pos, 2*opts.LineWidth+1)
		}
		fill(r, img, opts.Waypoint)

		for _, pos := range pauses {
			dot(r, proj, pos, 3*opts.LineWidth+2)
		}
		fill(r, img, opts.Pause)
	}

	for _, pos := range opts.Cameras {
		dot(r, proj, pos, opts.LineWidth+1)
	}
	fill(r, img, opts.Camera)

	if opts.QR != "" {
		if err := drawQR(img, opts.QR, opts.QRSize); err != nil {
			system.PutImage(img)
			return nil, err
		}
	}

	return img, nil
}

// segment adds a quad of the given width between a and b.
func segment(r *vector.Rasterizer, proj projection, a, b mgl64.Vec3, width float64) {
	ax, ay := proj.point(a)
	bx, by := proj.point(b)

	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	h := float32(width / 2)
	nx, ny := -dy/l*h, dx/l*h

	r.MoveTo(ax+nx, ay+ny)
	r.LineTo(bx+nx, by+ny)
	r.LineTo(bx-nx, by-ny)
	r.LineTo(ax-nx, ay-ny)
	r.ClosePath()
}

// dot adds a filled 16-gon of the given radius around p.
func dot(r *vector.Rasterizer, proj projection, p mgl64.Vec3, radius float64) {
	cx, cy := proj.point(p)
	const sides = 16
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		x := cx + float32(radius*math.Cos(a))
		y := cy + float32(radius*math.Sin(a))
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.ClosePath()
}

// fill paints the accumulated shapes and clears the rasterizer.
func fill(r *vector.Rasterizer, dst draw.Image, c color.RGBA) {
	b := dst.Bounds()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
	r.Reset(b.Dx(), b.Dy())
}

func drawQR(dst draw.Image, content string, size int) error {
	if size <= 0 {
		size = 128
	}
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}

	qr := code.Image(size)
	b := dst.Bounds()
	at := image.Pt(b.Max.X-qr.Bounds().Dx()-8, b.Max.Y-qr.Bounds().Dy()-8)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(qr.Bounds().Size())}, qr, qr.Bounds().Min, draw.Src)
	return nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
