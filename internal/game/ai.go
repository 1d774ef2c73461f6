package game

import (
	"math"
	"time"
)

// advanceAI drives every paddle without live human input. Sides occupied by
// a connected player are listed in humanSides and left alone.
func (s *State) advanceAI(humanSides map[Side]bool, now time.Time, dt float64) {
	for _, side := range PlaySides {
		if humanSides[side] {
			continue
		}
		p := s.Paddles[side]
		if p.Frozen {
			continue
		}
		s.driveAIPaddle(p, dt)
	}
}

func (s *State) driveAIPaddle(p *Paddle, dt float64) {
	var target float64
	if s.ballApproaching(p.Side) {
		predicted := s.predictCrossing(p.Side, dt)
		predicted += (s.rng.Float64()*2 - 1) * aiImperfection
		if s.rng.Float64() < aiMistakeChance {
			// Deliberate mistake so two AI paddles cannot settle into a
			// perfect deterministic rally.
			predicted += (s.rng.Float64()*2 - 1) * aiMistakeOffset
		}
		predicted -= p.Length() / 2
		if !p.hasAITarget || math.Abs(predicted-p.aiTarget) > aiRetargetDelta {
			p.aiTarget = predicted
			p.hasAITarget = true
		}
		target = p.aiTarget
	} else {
		p.hasAITarget = false
		center := (CanvasSize - p.Length()) / 2
		target = p.Pos() + (center-p.Pos())*aiIdleReturnFactor
	}

	dist := target - p.Pos()
	if math.Abs(dist) <= aiDeadzone {
		return
	}
	step := math.Min(p.Speed*dt, math.Abs(dist)*aiApproachDivisor)
	if dist < 0 {
		step = -step
	}
	p.SetPos(p.Pos() + step)
	p.Target = p.Pos()
}

// ballApproaching reports whether the ball's relevant velocity component
// points toward the given side.
func (s *State) ballApproaching(side Side) bool {
	switch side {
	case SideLeft:
		return s.Ball.VX < 0
	case SideRight:
		return s.Ball.VX > 0
	case SideTop:
		return s.Ball.VY < 0
	case SideBottom:
		return s.Ball.VY > 0
	default:
		return false
	}
}

// predictCrossing forward-simulates the ball, bouncing it off the two
// boundaries perpendicular to the target side, until it reaches the paddle
// plane or the step budget runs out. Returns the predicted coordinate along
// the paddle's movement axis.
func (s *State) predictCrossing(side Side, dt float64) float64 {
	x, y := s.Ball.X, s.Ball.Y
	vx, vy := s.Ball.VX, s.Ball.VY
	size := s.Ball.Size
	p := s.Paddles[side]

	for i := 0; i < aiMaxPredictSteps; i++ {
		x += vx * dt
		y += vy * dt

		if p.Horizontal() {
			if x-size < 0 {
				x = size
				vx = -vx
			} else if x+size > s.CanvasWidth {
				x = s.CanvasWidth - size
				vx = -vx
			}
		} else {
			if y-size < 0 {
				y = size
				vy = -vy
			} else if y+size > s.CanvasHeight {
				y = s.CanvasHeight - size
				vy = -vy
			}
		}

		switch side {
		case SideLeft:
			if x-size <= p.X+p.Width {
				return y
			}
		case SideRight:
			if x+size >= p.X {
				return y
			}
		case SideTop:
			if y-size <= p.Y+p.Height {
				return x
			}
		case SideBottom:
			if y+size >= p.Y {
				return x
			}
		}
	}

	if p.Horizontal() {
		return x
	}
	return y
}
