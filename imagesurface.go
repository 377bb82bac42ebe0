package rill

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- White pixel singleton (no sync.Once, rill is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used as
// the source of every untextured triangle.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// ImageSurface is a Surface drawing into an ebiten image. Paths are made of
// arcs; Fill triangulates each subpath as a fan (exact for convex shapes such
// as circles and sectors) and Stroke extrudes each subpath into a strip.
type ImageSurface struct {
	dst       *ebiten.Image
	fill      Color
	stroke    Color
	lineWidth float64
	path      [][]Vec2
}

// NewImageSurface returns a surface drawing into dst with a black fill and
// stroke style and a line width of 1.
func NewImageSurface(dst *ebiten.Image) *ImageSurface {
	return &ImageSurface{dst: dst, fill: ColorBlack, stroke: ColorBlack, lineWidth: 1}
}

// Image returns the destination image.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.dst
}

func (s *ImageSurface) FillRect(x, y, w, h float64) {
	pts := []Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	s.drawTriangles(buildPolygonFan(pts, s.fill))
}

func (s *ImageSurface) ClearRect(x, y, w, h float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	if r.Empty() {
		return
	}
	if sub, ok := s.dst.SubImage(r).(*ebiten.Image); ok {
		sub.Clear()
	}
}

func (s *ImageSurface) SetFillStyle(style string) {
	if c, ok := parseStyleOrWarn(style); ok {
		s.fill = c
	}
}

func (s *ImageSurface) SetStrokeStyle(style string) {
	if c, ok := parseStyleOrWarn(style); ok {
		s.stroke = c
	}
}

// SetLineWidth ignores non-positive widths, as a canvas does.
func (s *ImageSurface) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
		s.lineWidth = w
	}
}

func (s *ImageSurface) BeginPath() {
	s.path = s.path[:0]
}

// Arc appends an arc to the current subpath, joining it to the previous
// point with a straight line.
func (s *ImageSurface) Arc(x, y, r, start, end float64, ccw bool) {
	pts := arcPoints(x, y, r, start, end, ccw)
	if len(pts) == 0 {
		return
	}
	if len(s.path) == 0 {
		s.path = append(s.path, nil)
	}
	last := len(s.path) - 1
	s.path[last] = append(s.path[last], pts...)
}

func (s *ImageSurface) Stroke() {
	for _, sub := range s.path {
		s.drawTriangles(buildStrokeStrip(sub, s.lineWidth, s.stroke))
	}
}

func (s *ImageSurface) Fill() {
	for _, sub := range s.path {
		s.drawTriangles(buildPolygonFan(sub, s.fill))
	}
}

func (s *ImageSurface) drawTriangles(verts []ebiten.Vertex, inds []uint16) {
	if len(verts) == 0 || len(inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	s.dst.DrawTriangles(verts, inds, ensureWhitePixel(), &op)
}

// parseStyleOrWarn parses a style, logging and rejecting invalid ones so the
// previous style stays in effect.
func parseStyleOrWarn(style string) (Color, bool) {
	c, err := ParseStyle(style)
	if err != nil {
		Log.WithError(err).Warn("ignoring style")
		return Color{}, false
	}
	return c, true
}

const (
	arcSegmentLength = 4.0 // target pixels per arc segment
	maxArcSegments   = 256
)

// arcPoints samples an arc the way a canvas sweeps it: clockwise (in screen
// space) from start to end, or counterclockwise if ccw. A sweep of 2π or
// more draws a full circle.
func arcPoints(cx, cy, r, start, end float64, ccw bool) []Vec2 {
	if r < 0 || math.IsNaN(r) || math.IsNaN(start) || math.IsNaN(end) {
		return nil
	}
	const tau = 2 * math.Pi
	var sweep float64
	if !ccw {
		sweep = end - start
		if sweep >= tau {
			sweep = tau
		} else if sweep < 0 {
			sweep = math.Mod(sweep, tau) + tau
		}
	} else {
		sweep = end - start
		if sweep <= -tau {
			sweep = -tau
		} else if sweep > 0 {
			sweep = math.Mod(sweep, tau) - tau
		}
	}

	n := int(math.Ceil(math.Abs(sweep) * max(r, 1) / arcSegmentLength))
	n = min(max(n, 1), maxArcSegments)
	if math.Abs(sweep) >= tau {
		n = max(n, 8)
	}

	pts := make([]Vec2, n+1)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts[i] = Vec2{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

// buildPolygonFan generates vertices and indices for a fan-triangulated
// polygon. N vertices, 3*(N-2) indices.
func buildPolygonFan(points []Vec2, c Color) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 || n > math.MaxUint16 {
		return nil, nil
	}
	cr, cg, cb, ca := c.premultiplied()

	verts := make([]ebiten.Vertex, n)
	inds := make([]uint16, (n-2)*3)
	for i, p := range points {
		verts[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			// Untextured: map to center of white pixel (0.5, 0.5)
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}
	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < n-2; i++ {
		inds[i*3+0] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}
	return verts, inds
}

// buildStrokeStrip extrudes a polyline into a triangle strip of the given
// width. For N points: 2N vertices, 6(N-1) indices. Interior joints use the
// averaged segment normal, scaled to keep the width (max 2x extension).
func buildStrokeStrip(points []Vec2, width float64, c Color) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 2 || 2*n > math.MaxUint16 {
		return nil, nil
	}
	cr, cg, cb, ca := c.premultiplied()
	halfW := width / 2

	verts := make([]ebiten.Vertex, 2*n)
	inds := make([]uint16, 6*(n-1))
	for i := 0; i < n; i++ {
		var nx, ny float64
		switch {
		case i == 0:
			nx, ny = perpendicular(points[0], points[1])
		case i == n-1:
			nx, ny = perpendicular(points[n-2], points[n-1])
		default:
			nx0, ny0 := perpendicular(points[i-1], points[i])
			nx1, ny1 := perpendicular(points[i], points[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			if ln := math.Sqrt(nx*nx + ny*ny); ln > 1e-10 {
				nx /= ln
				ny /= ln
			}
			if dot := nx0*nx + ny0*ny; dot > 0.1 {
				scale := min(1.0/dot, 2.0)
				nx *= scale
				ny *= scale
			}
		}
		p := points[i]
		verts[2*i] = ebiten.Vertex{
			DstX: float32(p.X + nx*halfW), DstY: float32(p.Y + ny*halfW),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
		verts[2*i+1] = ebiten.Vertex{
			DstX: float32(p.X - nx*halfW), DstY: float32(p.Y - ny*halfW),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}
	// Two triangles per segment.
	for i := 0; i < n-1; i++ {
		ii := i * 6
		v := uint16(i * 2)
		inds[ii+0] = v
		inds[ii+1] = v + 1
		inds[ii+2] = v + 2
		inds[ii+3] = v + 1
		inds[ii+4] = v + 3
		inds[ii+5] = v + 2
	}
	return verts, inds
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}
