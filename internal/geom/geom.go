// Package geom holds the pure collision primitives used by the simulation:
// rectangle overlap with minimum-penetration resolution, swept tests for
// fast-moving bodies, and canvas boundary crossing.
package geom

import "math"

// Edge identifies one face of a rectangle or one boundary of the canvas.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Opposite returns the facing edge, or EdgeNone for EdgeNone.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeLeft:
		return EdgeRight
	case EdgeRight:
		return EdgeLeft
	case EdgeTop:
		return EdgeBottom
	case EdgeBottom:
		return EdgeTop
	default:
		return EdgeNone
	}
}

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Offset returns the rect translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Hit describes a resolved overlap: the target edge that was struck, the
// outward normal on that edge, and the midpoint of the overlapping region.
type Hit struct {
	Edge             Edge
	NormalX, NormalY float64
	PointX, PointY   float64
}

// Overlap tests a against b with an adjustable buffer and, on overlap,
// resolves the struck edge by least penetration across the four candidates.
func Overlap(a, b Rect, buffer float64) (Hit, bool) {
	if a.X >= b.X+b.Width+buffer || b.X >= a.X+a.Width+buffer ||
		a.Y >= b.Y+b.Height+buffer || b.Y >= a.Y+a.Height+buffer {
		return Hit{}, false
	}

	penLeft := a.X + a.Width - b.X
	penRight := b.X + b.Width - a.X
	penTop := a.Y + a.Height - b.Y
	penBottom := b.Y + b.Height - a.Y

	hit := Hit{Edge: EdgeLeft, NormalX: -1}
	min := penLeft
	if penRight < min {
		min = penRight
		hit = Hit{Edge: EdgeRight, NormalX: 1}
	}
	if penTop < min {
		min = penTop
		hit = Hit{Edge: EdgeTop, NormalY: -1}
	}
	if penBottom < min {
		hit = Hit{Edge: EdgeBottom, NormalY: 1}
	}

	hit.PointX = (math.Max(a.X, b.X) + math.Min(a.X+a.Width, b.X+b.Width)) / 2
	hit.PointY = (math.Max(a.Y, b.Y) + math.Min(a.Y+a.Height, b.Y+b.Height)) / 2
	return hit, true
}

// Swept tests a moving rect against a target, preferring a hit at the
// next-tick position over one at the current position so a fast body cannot
// tunnel through a thin target inside a single tick.
func Swept(moving Rect, vx, vy, dt float64, target Rect, buffer float64) (Hit, bool) {
	if vx != 0 || vy != 0 {
		if hit, ok := Overlap(moving.Offset(vx*dt, vy*dt), target, buffer); ok {
			return hit, true
		}
	}
	return Overlap(moving, target, buffer)
}

// BoundaryCrossing reports which canvas boundary a ball centered at (x, y)
// has fully crossed, meaning its center lies beyond the edge by more than
// the ball's own size. Returns EdgeNone while the ball is in play.
func BoundaryCrossing(x, y, size, width, height float64) Edge {
	switch {
	case x < -size:
		return EdgeLeft
	case x > width+size:
		return EdgeRight
	case y < -size:
		return EdgeTop
	case y > height+size:
		return EdgeBottom
	default:
		return EdgeNone
	}
}

// HitPosition normalizes the ball center's offset along a paddle's long axis
// to [0, 1], clamped. axisStart is the paddle's lower bound on that axis.
func HitPosition(ballCenter, axisStart, axisLength float64) float64 {
	if axisLength <= 0 {
		return 0.5
	}
	pos := (ballCenter - axisStart) / axisLength
	return math.Max(0, math.Min(1, pos))
}
