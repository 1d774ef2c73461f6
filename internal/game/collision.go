package game

import (
	"math"
	"time"

	"github.com/spotUP/pong-websocket-server/internal/geom"
)

func overlapRects(a, b geom.Rect) (geom.Hit, bool) {
	return geom.Overlap(a, b, 0)
}

// resolveBallPaddleCollision applies at most one paddle hit per tick, gated
// by the hit cooldown so a single contact cannot register twice across
// adjacent ticks.
func (s *State) resolveBallPaddleCollision(now time.Time, dt float64) {
	if s.Ball.stuckTo != SideNone {
		return
	}
	if now.Sub(s.Ball.lastPaddleHit) < paddleHitCooldown {
		return
	}
	for _, side := range PlaySides {
		p := s.Paddles[side]
		if _, ok := geom.Swept(s.Ball.Rect(), s.Ball.VX, s.Ball.VY, dt, p.Rect(), 0); !ok {
			continue
		}
		if p.Sticky {
			s.latchBall(p, now)
		} else {
			s.deflectOffPaddle(p, now)
		}
		return
	}
}

// latchBall sticks the ball to a sticky paddle face until the hold timer or
// the owning effect releases it.
func (s *State) latchBall(p *Paddle, now time.Time) {
	s.Ball.VX, s.Ball.VY = 0, 0
	s.Ball.stuckTo = p.Side
	s.Ball.stuckUntil = now.Add(stickyHoldTime)
	s.touchBall(p.Side)
	s.Ball.lastPaddleHit = now
	s.Rumble = true
	p.Sticky = false
	s.followStuckPaddle()
}

func (s *State) deflectOffPaddle(p *Paddle, now time.Time) {
	var ballCenter, axisStart, axisLength float64
	if p.Horizontal() {
		ballCenter, axisStart, axisLength = s.Ball.X, p.X, p.Width
	} else {
		ballCenter, axisStart, axisLength = s.Ball.Y, p.Y, p.Height
	}

	// Normalized hit offset in [-1,1] across the paddle span. Dead-center
	// hits are replaced with a randomized minimum deflection so the ball
	// cannot settle into a straight back-and-forth loop.
	h := (geom.HitPosition(ballCenter, axisStart, axisLength) - 0.5) * 2
	if math.Abs(h) < centerDeadzone {
		mag := minDeflection + s.rng.Float64()*(maxMinDeflection-minDeflection)
		switch {
		case h < 0:
			h = -mag
		case h > 0:
			h = mag
		default:
			if s.rng.Intn(2) == 0 {
				h = -mag
			} else {
				h = mag
			}
		}
	}

	angle := DeflectionAngle(h)
	speed := s.Ball.Speed() * (hitSpeedBoost + hitCenterBoost*math.Abs(h))

	along := math.Sin(angle) * speed
	away := math.Cos(angle) * speed
	switch p.Side {
	case SideLeft:
		s.Ball.VX, s.Ball.VY = away, along
		s.Ball.X = p.X + p.Width + s.Ball.Size
	case SideRight:
		s.Ball.VX, s.Ball.VY = -away, along
		s.Ball.X = p.X - s.Ball.Size
	case SideTop:
		s.Ball.VX, s.Ball.VY = along, away
		s.Ball.Y = p.Y + p.Height + s.Ball.Size
	case SideBottom:
		s.Ball.VX, s.Ball.VY = along, -away
		s.Ball.Y = p.Y - s.Ball.Size
	}

	s.touchBall(p.Side)
	s.Ball.lastPaddleHit = now
	s.Ball.ColorIndex++
	s.Rumble = true
}

// DeflectionAngle maps a normalized hit offset in [-1,1] through a quadratic
// curve to an outgoing angle, odd-symmetric around the paddle center and
// bounded by the maximum deflection.
func DeflectionAngle(h float64) float64 {
	h = clamp(h, -1, 1)
	return h * math.Abs(h) * maxDeflectionRad
}

// touchBall records paddle-touch attribution for scoring. Wall and field
// collisions never call this.
func (s *State) touchBall(side Side) {
	if s.Ball.LastTouchedBy != side {
		s.Ball.PreviousTouchedBy = s.Ball.LastTouchedBy
	}
	s.Ball.LastTouchedBy = side
}

// resolveFieldCollisions bounces the main ball off walls, bumpers, bricks,
// and mines spawned by active effects.
func (s *State) resolveFieldCollisions(now time.Time) {
	b := &s.Ball
	if b.stuckTo != SideNone {
		return
	}

	if !b.Ghost && len(s.Walls) > 0 {
		kept := s.Walls[:0]
		for _, w := range s.Walls {
			hit, ok := overlapRects(b.Rect(), geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height})
			if !ok {
				kept = append(kept, w)
				continue
			}
			if b.OnFire {
				continue // burned through
			}
			s.reflectOffRect(hit, w.X, w.Y, w.Width, w.Height)
			kept = append(kept, w)
		}
		s.Walls = kept
	}

	if !b.Ghost && len(s.Bricks) > 0 {
		kept := s.Bricks[:0]
		for _, br := range s.Bricks {
			hit, ok := overlapRects(b.Rect(), geom.Rect{X: br.X, Y: br.Y, Width: br.Width, Height: br.Height})
			if !ok {
				kept = append(kept, br)
				continue
			}
			if side := b.LastTouchedBy; side.Playing() {
				s.awardPoints(side, 1, now)
			}
			if !b.OnFire {
				s.reflectOffRect(hit, br.X, br.Y, br.Width, br.Height)
			}
		}
		s.Bricks = kept
	}

	for i := range s.Bumpers {
		bp := &s.Bumpers[i]
		dx := b.X - bp.X
		dy := b.Y - bp.Y
		dist := math.Hypot(dx, dy)
		reach := bp.Radius + b.Size
		if dist >= reach || dist == 0 {
			continue
		}
		nx, ny := dx/dist, dy/dist
		b.X = bp.X + nx*reach
		b.Y = bp.Y + ny*reach
		dot := b.VX*nx + b.VY*ny
		if dot < 0 {
			b.VX -= 2 * dot * nx
			b.VY -= 2 * dot * ny
		}
		b.VX += nx * 40
		b.VY += ny * 40
	}

	if len(s.Mines) > 0 {
		kept := s.Mines[:0]
		for _, m := range s.Mines {
			dx := b.X - m.X
			dy := b.Y - m.Y
			dist := math.Hypot(dx, dy)
			// Freshly dropped mines sit under the ball; only detonate once
			// the ball has cleared and come back.
			if dist >= m.Radius+b.Size || dist == 0 {
				kept = append(kept, m)
				continue
			}
			if now.Sub(b.lastMineDrop) < mineDropInterval/2 {
				kept = append(kept, m)
				continue
			}
			b.VX += dx / dist * 300
			b.VY += dy / dist * 300
			s.Rumble = true
		}
		s.Mines = kept
	}
}

func (s *State) reflectOffRect(hit geom.Hit, x, y, w, h float64) {
	b := &s.Ball
	switch {
	case hit.NormalX < 0:
		b.X = x - b.Size
		b.VX = -math.Abs(b.VX)
	case hit.NormalX > 0:
		b.X = x + w + b.Size
		b.VX = math.Abs(b.VX)
	case hit.NormalY < 0:
		b.Y = y - b.Size
		b.VY = -math.Abs(b.VY)
	case hit.NormalY > 0:
		b.Y = y + h + b.Size
		b.VY = math.Abs(b.VY)
	}
}

// resolveBoundary awards a point once the ball has fully crossed a canvas
// boundary, honoring the longer boundary cooldown so one crossing cannot
// score twice.
func (s *State) resolveBoundary(now time.Time) {
	if now.Sub(s.Ball.lastBoundary) < boundaryCooldown {
		return
	}
	edge := geom.BoundaryCrossing(s.Ball.X, s.Ball.Y, s.Ball.Size, s.CanvasWidth, s.CanvasHeight)
	if edge == geom.EdgeNone {
		return
	}
	s.Ball.lastBoundary = now

	crossed := sideFromEdge(edge)
	scorer := s.resolveScorer(crossed)

	points := 1
	if s.DoublePoints {
		points = 2
	}
	s.awardPoints(scorer, points, now)

	if !s.GameEnded {
		s.IsPaused = true
		s.PauseUntil = now.Add(goalPause).UnixMilli()
		s.serveBall(now)
	}
}

// resolveScorer attributes a boundary crossing: the last toucher scores,
// unless it scored on itself, in which case the previous toucher takes the
// point, falling back to the side opposite the crossed boundary. An
// untouched ball also scores for the opposite side.
func (s *State) resolveScorer(crossed Side) Side {
	last := s.Ball.LastTouchedBy
	if last == SideNone {
		return crossed.Opposite()
	}
	if last != crossed {
		return last
	}
	if prev := s.Ball.PreviousTouchedBy; prev.Playing() {
		return prev
	}
	return crossed.Opposite()
}

// awardPoints adds to a side's score and transitions to the ended state at
// the win threshold. Callers handle the celebration pause.
func (s *State) awardPoints(side Side, points int, _ time.Time) {
	if !side.Playing() || s.GameEnded {
		return
	}
	s.Score[side] += points
	if s.Score[side] >= WinScore {
		s.Winner = side
		s.GameEnded = true
		s.IsPlaying = false
		s.IsPaused = false
		s.PauseUntil = 0
	}
}

// clampBall guards against runaway acceleration from stacked field forces.
func (s *State) clampBall(now time.Time) {
	b := &s.Ball
	b.VX = clamp(b.VX, -maxBallComponent, maxBallComponent)
	b.VY = clamp(b.VY, -maxBallComponent, maxBallComponent)
	if math.Abs(b.X) > divergenceBound || math.Abs(b.Y) > divergenceBound {
		b.X = s.CanvasWidth / 2
		b.Y = s.CanvasHeight / 2
		b.setSpeed(ballBaseSpeed)
		b.lastBoundary = now
	}
}
