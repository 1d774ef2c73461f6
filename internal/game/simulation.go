package game

import (
	"math"
	"time"
)

// Advance runs one fixed tick. humanSides lists the sides currently driven
// by live player input; every other paddle is AI-controlled. The caller
// holds the room's lock and broadcasts the post-tick snapshot afterwards
// whether or not anything changed.
func (s *State) Advance(humanSides map[Side]bool, now time.Time, dt float64) {
	s.Rumble = false
	if s.CollectedFlash != 0 && now.UnixMilli() >= s.CollectedFlash {
		s.CollectedFlash = 0
	}

	if s.IsPaused {
		if s.PauseUntil != 0 && now.UnixMilli() >= s.PauseUntil {
			s.IsPaused = false
			s.PauseUntil = 0
		} else {
			return
		}
	}
	if !s.IsPlaying || s.GameEnded {
		return
	}

	for _, side := range PlaySides {
		p := s.Paddles[side]
		p.prevPos = p.Pos()
	}

	s.advanceAI(humanSides, now, dt)
	s.resolvePaddleCollisions()
	s.applyPaddleWobble(now, dt)
	s.applyFieldForces(dt)
	s.moveBall(now, dt)
	s.moveExtraBalls(dt)
	s.resolveBallPaddleCollision(now, dt)
	s.resolveFieldCollisions(now)
	s.resolveBoundary(now)
	s.clampBall(now)
	s.expireEffects(now)
	s.tickPickups(now)
}

// ApplyPaddleInput applies a sequenced client paddle update. The registry
// has already validated ordering; frozen paddles ignore input and reversed
// paddles have their coordinates mirrored across the canvas.
func (s *State) ApplyPaddleInput(side Side, pos, velocity, target float64, now time.Time) {
	p, ok := s.Paddles[side]
	if !ok || p.Frozen {
		return
	}
	if p.Reversed {
		pos = s.CanvasWidth - p.Length() - pos
		target = s.CanvasWidth - p.Length() - target
		velocity = -velocity
	}
	p.SetPos(pos)
	p.Velocity = velocity
	p.Target = target
	p.movedAt = now
}

// resolvePaddleCollisions reverts overlapping adjacent-corner paddles. The
// paddle displaced further this tick yields; if both moved the same amount,
// or reverting one does not clear the overlap, both revert.
func (s *State) resolvePaddleCollisions() {
	pairs := [][2]Side{
		{SideLeft, SideTop},
		{SideTop, SideRight},
		{SideRight, SideBottom},
		{SideBottom, SideLeft},
	}
	for _, pair := range pairs {
		a, b := s.Paddles[pair[0]], s.Paddles[pair[1]]
		if _, ok := overlapRects(a.Rect(), b.Rect()); !ok {
			continue
		}
		da := math.Abs(a.Pos() - a.prevPos)
		db := math.Abs(b.Pos() - b.prevPos)
		switch {
		case da > db:
			a.SetPos(a.prevPos)
		case db > da:
			b.SetPos(b.prevPos)
		default:
			a.SetPos(a.prevPos)
			b.SetPos(b.prevPos)
		}
		if _, ok := overlapRects(a.Rect(), b.Rect()); ok {
			a.SetPos(a.prevPos)
			b.SetPos(b.prevPos)
		}
	}
}

func (s *State) applyPaddleWobble(now time.Time, dt float64) {
	for _, side := range PlaySides {
		p := s.Paddles[side]
		if !p.Drunk || p.Frozen {
			continue
		}
		p.wobblePhase += dt * 5
		p.SetPos(p.Pos() + math.Sin(p.wobblePhase)*60*dt)
	}
}

// applyFieldForces accelerates the ball under every active field effect.
func (s *State) applyFieldForces(dt float64) {
	if s.Ball.stuckTo != SideNone {
		return
	}
	for _, eff := range s.ActiveEffects {
		switch eff.Type {
		case EffectGravityWell:
			s.accelerateToward(eff.X, eff.Y, fieldForceStrength*dt)
		case EffectRepulsor:
			s.accelerateToward(eff.X, eff.Y, -fieldForceStrength*dt)
		case EffectBlackHole:
			if math.Hypot(s.Ball.X-eff.X, s.Ball.Y-eff.Y) < blackHoleCoreRadius+s.Ball.Size {
				s.flingFromBlackHole()
				continue
			}
			s.accelerateToward(eff.X, eff.Y, blackHoleStrength*dt)
		case EffectWind:
			s.Ball.VX += eff.X * windStrength * dt
			s.Ball.VY += eff.Y * windStrength * dt
		}
	}
}

func (s *State) accelerateToward(x, y, accel float64) {
	dx := x - s.Ball.X
	dy := y - s.Ball.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	s.Ball.VX += dx / dist * accel
	s.Ball.VY += dy / dist * accel
}

// flingFromBlackHole ejects a swallowed ball at a random point with a
// random high-speed velocity.
func (s *State) flingFromBlackHole() {
	s.Ball.X, s.Ball.Y = s.randomInteriorPoint()
	angle := s.rng.Float64() * 2 * math.Pi
	speed := ballBaseSpeed * 2.4
	s.Ball.VX = math.Cos(angle) * speed
	s.Ball.VY = math.Sin(angle) * speed
}

func (s *State) moveBall(now time.Time, dt float64) {
	b := &s.Ball

	if b.stuckTo != SideNone {
		s.followStuckPaddle()
		if !b.stuckUntil.IsZero() && now.After(b.stuckUntil) {
			s.releaseStuckBall(now)
		}
		return
	}

	if b.Drunk {
		b.wobblePhase += dt * 6
		rotateVelocity(b, math.Sin(b.wobblePhase)*1.2*dt)
	}
	if b.Curving {
		rotateVelocity(b, 0.9*dt)
	}
	if b.Floating {
		b.wobblePhase += dt * 3
		b.VY *= 1 - 0.8*dt
		b.Y += math.Sin(b.wobblePhase) * 30 * dt
	}
	if b.Magnetic {
		if side := s.nearestPaddle(); side != SideNone {
			p := s.Paddles[side]
			cx := p.X + p.Width/2
			cy := p.Y + p.Height/2
			s.accelerateToward(cx, cy, fieldForceStrength*0.6*dt)
		}
	}
	if b.Quantum && now.Sub(b.lastQuantum) >= quantumJumpInterval {
		b.lastQuantum = now
		b.X += (s.rng.Float64()*2 - 1) * quantumJumpRange
		b.Y += (s.rng.Float64()*2 - 1) * quantumJumpRange
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt

	if b.TrailMines && now.Sub(b.lastMineDrop) >= mineDropInterval {
		b.lastMineDrop = now
		s.dropMine(b.X, b.Y)
	}
	if b.PortalLinked {
		s.traversePortals(now)
	}
}

func rotateVelocity(b *Ball, radians float64) {
	sin, cos := math.Sin(radians), math.Cos(radians)
	vx := b.VX*cos - b.VY*sin
	b.VY = b.VX*sin + b.VY*cos
	b.VX = vx
}

func (s *State) nearestPaddle() Side {
	best := SideNone
	bestDist := math.MaxFloat64
	for _, side := range PlaySides {
		p := s.Paddles[side]
		d := math.Hypot(p.X+p.Width/2-s.Ball.X, p.Y+p.Height/2-s.Ball.Y)
		if d < bestDist {
			bestDist = d
			best = side
		}
	}
	return best
}

// traversePortals teleports the ball between the portal pair stored on the
// portal_ball effect, rate-limited so the exit portal cannot immediately
// swallow the ball again.
func (s *State) traversePortals(now time.Time) {
	if now.Sub(s.Ball.lastPortal) < 500*time.Millisecond {
		return
	}
	for _, eff := range s.ActiveEffects {
		if eff.Type != EffectPortalBall {
			continue
		}
		reach := portalRadius + s.Ball.Size
		if math.Hypot(s.Ball.X-eff.X, s.Ball.Y-eff.Y) < reach {
			s.Ball.X, s.Ball.Y = eff.TargetX, eff.TargetY
			s.Ball.lastPortal = now
			return
		}
		if math.Hypot(s.Ball.X-eff.TargetX, s.Ball.Y-eff.TargetY) < reach {
			s.Ball.X, s.Ball.Y = eff.X, eff.Y
			s.Ball.lastPortal = now
			return
		}
	}
}

func (s *State) dropMine(x, y float64) {
	s.Mines = append(s.Mines, Mine{ID: newID(), X: x, Y: y, Radius: mineRadius})
}

func (s *State) followStuckPaddle() {
	p, ok := s.Paddles[s.Ball.stuckTo]
	if !ok {
		s.Ball.stuckTo = SideNone
		return
	}
	switch p.Side {
	case SideLeft:
		s.Ball.X = p.X + p.Width + s.Ball.Size
		s.Ball.Y = p.Y + p.Height/2
	case SideRight:
		s.Ball.X = p.X - s.Ball.Size
		s.Ball.Y = p.Y + p.Height/2
	case SideTop:
		s.Ball.X = p.X + p.Width/2
		s.Ball.Y = p.Y + p.Height + s.Ball.Size
	case SideBottom:
		s.Ball.X = p.X + p.Width/2
		s.Ball.Y = p.Y - s.Ball.Size
	}
}

func (s *State) moveExtraBalls(dt float64) {
	for _, eb := range s.ExtraBalls {
		eb.X += eb.VX * dt
		eb.Y += eb.VY * dt
		if eb.X-eb.Size < 0 {
			eb.X = eb.Size
			eb.VX = -eb.VX
		} else if eb.X+eb.Size > s.CanvasWidth {
			eb.X = s.CanvasWidth - eb.Size
			eb.VX = -eb.VX
		}
		if eb.Y-eb.Size < 0 {
			eb.Y = eb.Size
			eb.VY = -eb.VY
		} else if eb.Y+eb.Size > s.CanvasHeight {
			eb.Y = s.CanvasHeight - eb.Size
			eb.VY = -eb.VY
		}
	}
}
