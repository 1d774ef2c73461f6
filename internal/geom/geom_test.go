package geom

import "testing"

func TestOverlapMiss(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 20, Width: 10, Height: 10}
	if _, ok := Overlap(a, b, 0); ok {
		t.Fatal("expected no overlap for disjoint rects")
	}
}

func TestOverlapBufferExtendsReach(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 12, Y: 0, Width: 10, Height: 10}
	if _, ok := Overlap(a, b, 0); ok {
		t.Fatal("rects 2px apart should not overlap without buffer")
	}
	if _, ok := Overlap(a, b, 3); !ok {
		t.Fatal("rects 2px apart should overlap with 3px buffer")
	}
}

func TestOverlapLeastPenetrationWins(t *testing.T) {
	tests := []struct {
		name string
		a    Rect
		want Edge
	}{
		{"from left", Rect{X: -8, Y: 40, Width: 10, Height: 10}, EdgeLeft},
		{"from right", Rect{X: 98, Y: 40, Width: 10, Height: 10}, EdgeRight},
		{"from top", Rect{X: 40, Y: -8, Width: 10, Height: 10}, EdgeTop},
		{"from bottom", Rect{X: 40, Y: 98, Width: 10, Height: 10}, EdgeBottom},
	}
	target := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	for _, tt := range tests {
		hit, ok := Overlap(tt.a, target, 0)
		if !ok {
			t.Fatalf("%s: expected overlap", tt.name)
		}
		if hit.Edge != tt.want {
			t.Errorf("%s: resolved edge %v, want %v", tt.name, hit.Edge, tt.want)
		}
	}
}

func TestOverlapNormalsPointOutward(t *testing.T) {
	target := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	hit, ok := Overlap(Rect{X: -8, Y: 40, Width: 10, Height: 10}, target, 0)
	if !ok {
		t.Fatal("expected overlap")
	}
	if hit.NormalX != -1 || hit.NormalY != 0 {
		t.Fatalf("left-edge normal = (%v,%v), want (-1,0)", hit.NormalX, hit.NormalY)
	}
}

func TestOverlapPointIsMidpointOfOverlapRegion(t *testing.T) {
	a := Rect{X: 90, Y: 40, Width: 20, Height: 20}
	b := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	hit, ok := Overlap(a, b, 0)
	if !ok {
		t.Fatal("expected overlap")
	}
	if hit.PointX != 95 || hit.PointY != 50 {
		t.Fatalf("collision point = (%v,%v), want (95,50)", hit.PointX, hit.PointY)
	}
}

func TestSweptDetectsTunneling(t *testing.T) {
	// Ball left of a thin paddle, moving fast enough to jump past it in
	// one tick at the current position but landing inside at the next.
	ball := Rect{X: 0, Y: 45, Width: 10, Height: 10}
	paddle := Rect{X: 30, Y: 0, Width: 8, Height: 100}
	if _, ok := Overlap(ball, paddle, 0); ok {
		t.Fatal("ball should not overlap paddle at current position")
	}
	if _, ok := Swept(ball, 1800, 0, 1.0/60, paddle, 0); !ok {
		t.Fatal("swept test should register the hit at the next position")
	}
}

func TestSweptFallsBackToCurrentPosition(t *testing.T) {
	ball := Rect{X: 28, Y: 45, Width: 10, Height: 10}
	paddle := Rect{X: 30, Y: 0, Width: 8, Height: 100}
	if _, ok := Swept(ball, 0, 0, 1.0/60, paddle, 0); !ok {
		t.Fatal("stationary overlapping ball should still hit")
	}
}

func TestBoundaryCrossing(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Edge
	}{
		{"in play", 400, 400, EdgeNone},
		{"grazing left edge", -5, 400, EdgeNone},
		{"past left", -11, 400, EdgeLeft},
		{"past right", 811, 400, EdgeRight},
		{"past top", 400, -11, EdgeTop},
		{"past bottom", 400, 811, EdgeBottom},
	}
	for _, tt := range tests {
		if got := BoundaryCrossing(tt.x, tt.y, 10, 800, 800); got != tt.want {
			t.Errorf("%s: crossing = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHitPositionClamped(t *testing.T) {
	if got := HitPosition(50, 0, 100); got != 0.5 {
		t.Errorf("center hit = %v, want 0.5", got)
	}
	if got := HitPosition(-20, 0, 100); got != 0 {
		t.Errorf("below-span hit = %v, want 0", got)
	}
	if got := HitPosition(500, 0, 100); got != 1 {
		t.Errorf("above-span hit = %v, want 1", got)
	}
	if got := HitPosition(10, 0, 0); got != 0.5 {
		t.Errorf("degenerate span = %v, want 0.5", got)
	}
}

func TestEdgeOpposite(t *testing.T) {
	pairs := map[Edge]Edge{
		EdgeLeft:   EdgeRight,
		EdgeRight:  EdgeLeft,
		EdgeTop:    EdgeBottom,
		EdgeBottom: EdgeTop,
		EdgeNone:   EdgeNone,
	}
	for e, want := range pairs {
		if got := e.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", e, got, want)
		}
	}
}
