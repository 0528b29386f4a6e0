package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Camera looks at the origin from Distance along +z after the scene is
// turned by RotX, RotY and RotZ, applied in that order.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 10, Near: 0.1, RotX: 0.4, RotY: 0.6, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// view is the camera orientation frozen for one frame.
type view struct {
	rx, ry, rz r3.Rotation
	cam        *Camera
	w, h       int
}

func (c *Camera) view(w, h int) view {
	return view{
		rx:  r3.NewRotation(c.RotX, axisX),
		ry:  r3.NewRotation(c.RotY, axisY),
		rz:  r3.NewRotation(c.RotZ, axisZ),
		cam: c,
		w:   w,
		h:   h,
	}
}

// project maps a point of the [-1, 1]^3 scene to sub-pixel coordinates and
// its depth. ok is false when the point is behind the near plane or off
// the canvas.
func (v view) project(p r3.Vec) (x, y int, depth float64, ok bool) {
	p = r3.Scale(v.cam.Zoom, v.rz.Rotate(v.ry.Rotate(v.rx.Rotate(p))))
	d := v.cam.Distance
	if p.Z >= d-v.cam.Near {
		return 0, 0, 0, false
	}
	f := d / (d - p.Z) * float64(min(v.w, v.h)) / 4
	x = int(p.X*f) + v.w/2
	y = int(-p.Y*f) + v.h/2
	return x, y, p.Z, x >= 0 && x < v.w && y >= 0 && y < v.h
}

// Edge is a segment of the scene; Start == End draws a single dot.
type Edge struct {
	Start, End r3.Vec
	Series     int
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{} }

func (w *Wireframe) AddEdge(a, b r3.Vec, series int) {
	w.Edges = append(w.Edges, Edge{Start: a, End: b, Series: series})
}

func (w *Wireframe) AddPoint(p r3.Vec, series int) { w.AddEdge(p, p, series) }

// Render3D draws the wireframe far to near so nearer series win shared cells.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	type segment struct {
		x0, y0, x1, y1 int
		depth          float64
		series         int
	}
	v := cam.view(c.Dots())
	segs := make([]segment, 0, len(w.Edges))
	for _, e := range w.Edges {
		x0, y0, d0, ok0 := v.project(e.Start)
		x1, y1, d1, ok1 := v.project(e.End)
		if ok0 || ok1 {
			segs = append(segs, segment{x0, y0, x1, y1, (d0 + d1) / 2, e.Series})
		}
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].depth < segs[j].depth })
	for _, s := range segs {
		if s.x0 == s.x1 && s.y0 == s.y1 {
			c.SetSeries(s.x0, s.y0, s.series)
			continue
		}
		c.DrawSeriesLine(s.x0, s.y0, s.x1, s.y1, s.series)
	}
}

// BoxWireframe is the twelve edges of a cube of side size centred on the
// origin.
func BoxWireframe(size float64, series int) *Wireframe {
	h := size / 2
	corner := func(i int) r3.Vec {
		c := r3.Vec{X: -h, Y: -h, Z: -h}
		if i&1 != 0 {
			c.X = h
		}
		if i&2 != 0 {
			c.Y = h
		}
		if i&4 != 0 {
			c.Z = h
		}
		return c
	}
	w := NewWireframe()
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				w.AddEdge(corner(i), corner(i|bit), series)
			}
		}
	}
	return w
}
