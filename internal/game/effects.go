package game

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// EffectType tags one entry of the pickup catalog.
type EffectType string

// EffectCategory groups catalog entries for spawning and tooling.
type EffectCategory string

const (
	CategoryBall     EffectCategory = "ball"
	CategoryPaddle   EffectCategory = "paddle"
	CategoryField    EffectCategory = "field"
	CategoryScore    EffectCategory = "score"
	CategoryCosmetic EffectCategory = "cosmetic"
)

const (
	EffectSpeedUp       EffectType = "speed_up"
	EffectSpeedDown     EffectType = "speed_down"
	EffectBigBall       EffectType = "big_ball"
	EffectSmallBall     EffectType = "small_ball"
	EffectDrunkBall     EffectType = "drunk_ball"
	EffectCurveBall     EffectType = "curve_ball"
	EffectMagnetBall    EffectType = "magnet_ball"
	EffectFloatBall     EffectType = "float_ball"
	EffectInvisibleBall EffectType = "invisible_ball"
	EffectGhostBall     EffectType = "ghost_ball"
	EffectMirrorBall    EffectType = "mirror_ball"
	EffectQuantumBall   EffectType = "quantum_ball"
	EffectPortalBall    EffectType = "portal_ball"
	EffectTrailMines    EffectType = "trail_mines"
	EffectFireBall      EffectType = "fire_ball"

	EffectGrowPaddle    EffectType = "grow_paddle"
	EffectShrinkPaddle  EffectType = "shrink_paddle"
	EffectGiantPaddle   EffectType = "giant_paddle"
	EffectFastPaddle    EffectType = "fast_paddle"
	EffectSlowPaddle    EffectType = "slow_paddle"
	EffectReversePaddle EffectType = "reverse_paddle"
	EffectFrozenPaddle  EffectType = "frozen_paddle"
	EffectDrunkPaddle   EffectType = "drunk_paddle"
	EffectStickyPaddle  EffectType = "sticky_paddle"

	EffectMultiBall   EffectType = "multi_ball"
	EffectGravityWell EffectType = "gravity_well"
	EffectRepulsor    EffectType = "repulsor"
	EffectBlackHole   EffectType = "black_hole"
	EffectCenterWall  EffectType = "center_wall"
	EffectRandomWalls EffectType = "random_walls"
	EffectBumpers     EffectType = "bumpers"
	EffectArkanoid    EffectType = "arkanoid"
	EffectWind        EffectType = "wind"
	EffectEarthquake  EffectType = "earthquake"

	EffectSuperStriker EffectType = "super_striker"
	EffectSwitchSides  EffectType = "switch_sides"
	EffectScoreSteal   EffectType = "score_steal"
	EffectDoublePoints EffectType = "double_points"
	EffectCoinShower   EffectType = "coin_shower"

	EffectDisco    EffectType = "disco"
	EffectBlackout EffectType = "blackout"
)

type effectHandler func(s *State, eff *ActiveEffect, now time.Time)

// EffectDefinition pairs an apply mutation with the expiry routine that
// reverses it. Expire must never be nil: list removal alone is expressed as
// an explicit no-op so the catalog test can enforce the pairing.
type EffectDefinition struct {
	Type     EffectType
	Category EffectCategory
	Duration time.Duration
	Apply    effectHandler
	Expire   effectHandler
}

func expireNoop(*State, *ActiveEffect, time.Time) {}

func newID() string { return uuid.NewString() }

// ballFlag builds the apply/expire pair for a boolean ball modifier.
func ballFlag(get func(*Ball) *bool) (effectHandler, effectHandler) {
	apply := func(s *State, _ *ActiveEffect, _ time.Time) { *get(&s.Ball) = true }
	expire := func(s *State, _ *ActiveEffect, _ time.Time) { *get(&s.Ball) = false }
	return apply, expire
}

// ballSpeedScale saves the current speed magnitude and rescales it; expiry
// restores the saved magnitude, preserving whatever direction the ball has.
func ballSpeedScale(factor float64) (effectHandler, effectHandler) {
	apply := func(s *State, eff *ActiveEffect, _ time.Time) {
		speed := s.Ball.Speed()
		eff.OriginalValue = &speed
		s.Ball.setSpeed(speed * factor)
	}
	expire := func(s *State, eff *ActiveEffect, _ time.Time) {
		if eff.OriginalValue != nil {
			s.Ball.setSpeed(*eff.OriginalValue)
		}
	}
	return apply, expire
}

func ballSizeScale(factor float64) (effectHandler, effectHandler) {
	apply := func(s *State, eff *ActiveEffect, _ time.Time) {
		size := s.Ball.Size
		eff.OriginalValue = &size
		s.Ball.Size = size * factor
	}
	expire := func(s *State, eff *ActiveEffect, _ time.Time) {
		if eff.OriginalValue != nil {
			s.Ball.Size = *eff.OriginalValue
		}
	}
	return apply, expire
}

// paddleLengthScale picks a random side, saves its long-axis length, and
// scales it within the fixed clamp.
func paddleLengthScale(factor float64) (effectHandler, effectHandler) {
	apply := func(s *State, eff *ActiveEffect, _ time.Time) {
		side := s.randomPlaySide()
		p := s.Paddles[side]
		length := p.Length()
		eff.Side = side
		eff.OriginalValue = &length
		p.SetLength(clamp(length*factor, PaddleMinLength, PaddleMaxLength))
	}
	expire := func(s *State, eff *ActiveEffect, _ time.Time) {
		if p, ok := s.Paddles[eff.Side]; ok && eff.OriginalValue != nil {
			p.SetLength(*eff.OriginalValue)
		}
	}
	return apply, expire
}

func paddleSpeedScale(factor float64) (effectHandler, effectHandler) {
	apply := func(s *State, eff *ActiveEffect, _ time.Time) {
		side := s.randomPlaySide()
		p := s.Paddles[side]
		speed := p.Speed
		eff.Side = side
		eff.OriginalValue = &speed
		p.Speed = speed * factor
	}
	expire := func(s *State, eff *ActiveEffect, _ time.Time) {
		if p, ok := s.Paddles[eff.Side]; ok && eff.OriginalValue != nil {
			p.Speed = *eff.OriginalValue
		}
	}
	return apply, expire
}

func paddleFlag(get func(*Paddle) *bool) (effectHandler, effectHandler) {
	apply := func(s *State, eff *ActiveEffect, _ time.Time) {
		eff.Side = s.randomPlaySide()
		*get(s.Paddles[eff.Side]) = true
	}
	expire := func(s *State, eff *ActiveEffect, _ time.Time) {
		if p, ok := s.Paddles[eff.Side]; ok {
			*get(p) = false
		}
	}
	return apply, expire
}

// fieldPoint stores a random interior point on the effect; the force it
// exerts lives and dies with the effect, so expiry is list removal only.
func fieldPoint() (effectHandler, effectHandler) {
	apply := func(s *State, eff *ActiveEffect, _ time.Time) {
		eff.X, eff.Y = s.randomInteriorPoint()
	}
	return apply, expireNoop
}

func newEffectDefinitions() map[EffectType]*EffectDefinition {
	defs := make(map[EffectType]*EffectDefinition, 48)
	add := func(t EffectType, cat EffectCategory, d time.Duration, apply, expire effectHandler) {
		defs[t] = &EffectDefinition{Type: t, Category: cat, Duration: d, Apply: apply, Expire: expire}
	}
	addPair := func(t EffectType, cat EffectCategory, d time.Duration, pair func() (effectHandler, effectHandler)) {
		apply, expire := pair()
		add(t, cat, d, apply, expire)
	}

	speedUp, speedUpExp := ballSpeedScale(1.5)
	add(EffectSpeedUp, CategoryBall, 6*time.Second, speedUp, speedUpExp)
	speedDown, speedDownExp := ballSpeedScale(0.6)
	add(EffectSpeedDown, CategoryBall, 6*time.Second, speedDown, speedDownExp)
	big, bigExp := ballSizeScale(2)
	add(EffectBigBall, CategoryBall, 10*time.Second, big, bigExp)
	small, smallExp := ballSizeScale(0.5)
	add(EffectSmallBall, CategoryBall, 10*time.Second, small, smallExp)

	addPair(EffectDrunkBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Drunk })
	})
	addPair(EffectCurveBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Curving })
	})
	addPair(EffectMagnetBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Magnetic })
	})
	addPair(EffectFloatBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Floating })
	})
	addPair(EffectInvisibleBall, CategoryBall, 7*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Invisible })
	})
	addPair(EffectGhostBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Ghost })
	})
	addPair(EffectMirrorBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Mirrored })
	})
	addPair(EffectQuantumBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.Quantum })
	})
	addPair(EffectFireBall, CategoryBall, 8*time.Second, func() (effectHandler, effectHandler) {
		return ballFlag(func(b *Ball) *bool { return &b.OnFire })
	})

	add(EffectPortalBall, CategoryBall, 10*time.Second,
		func(s *State, eff *ActiveEffect, _ time.Time) {
			s.Ball.PortalLinked = true
			eff.X, eff.Y = s.randomInteriorPoint()
			eff.TargetX, eff.TargetY = s.randomInteriorPoint()
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Ball.PortalLinked = false
		})

	add(EffectTrailMines, CategoryBall, 9*time.Second,
		func(s *State, _ *ActiveEffect, now time.Time) {
			s.Ball.TrailMines = true
			s.Ball.lastMineDrop = now
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Ball.TrailMines = false
			s.Mines = nil
		})

	grow, growExp := paddleLengthScale(1.5)
	add(EffectGrowPaddle, CategoryPaddle, 10*time.Second, grow, growExp)
	shrink, shrinkExp := paddleLengthScale(0.6)
	add(EffectShrinkPaddle, CategoryPaddle, 10*time.Second, shrink, shrinkExp)
	giant, giantExp := paddleLengthScale(2.2)
	add(EffectGiantPaddle, CategoryPaddle, 8*time.Second, giant, giantExp)
	fast, fastExp := paddleSpeedScale(1.8)
	add(EffectFastPaddle, CategoryPaddle, 10*time.Second, fast, fastExp)
	slow, slowExp := paddleSpeedScale(0.5)
	add(EffectSlowPaddle, CategoryPaddle, 10*time.Second, slow, slowExp)

	addPair(EffectReversePaddle, CategoryPaddle, 8*time.Second, func() (effectHandler, effectHandler) {
		return paddleFlag(func(p *Paddle) *bool { return &p.Reversed })
	})
	addPair(EffectFrozenPaddle, CategoryPaddle, 5*time.Second, func() (effectHandler, effectHandler) {
		return paddleFlag(func(p *Paddle) *bool { return &p.Frozen })
	})
	addPair(EffectDrunkPaddle, CategoryPaddle, 8*time.Second, func() (effectHandler, effectHandler) {
		return paddleFlag(func(p *Paddle) *bool { return &p.Drunk })
	})

	add(EffectStickyPaddle, CategoryPaddle, 10*time.Second,
		func(s *State, eff *ActiveEffect, _ time.Time) {
			eff.Side = s.randomPlaySide()
			s.Paddles[eff.Side].Sticky = true
		},
		func(s *State, eff *ActiveEffect, now time.Time) {
			if p, ok := s.Paddles[eff.Side]; ok {
				p.Sticky = false
			}
			if s.Ball.stuckTo == eff.Side {
				s.releaseStuckBall(now)
			}
		})

	add(EffectMultiBall, CategoryField, 10*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			for i := 0; i < 2; i++ {
				angle := s.rng.Float64() * 2 * math.Pi
				speed := ballBaseSpeed + s.rng.Float64()*ballServeJitter
				s.ExtraBalls = append(s.ExtraBalls, &ExtraBall{
					ID:   uuid.NewString(),
					X:    s.Ball.X,
					Y:    s.Ball.Y,
					VX:   math.Cos(angle) * speed,
					VY:   math.Sin(angle) * speed,
					Size: s.Ball.Size,
				})
			}
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.ExtraBalls = nil
		})

	addPair(EffectGravityWell, CategoryField, 12*time.Second, fieldPoint)
	addPair(EffectRepulsor, CategoryField, 12*time.Second, fieldPoint)
	addPair(EffectBlackHole, CategoryField, 10*time.Second, fieldPoint)

	add(EffectCenterWall, CategoryField, 12*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			mid := s.CanvasWidth / 2
			s.Walls = append(s.Walls,
				Wall{ID: uuid.NewString(), X: mid - 10, Y: mid - 110, Width: 20, Height: 220},
				Wall{ID: uuid.NewString(), X: mid - 110, Y: mid - 10, Width: 220, Height: 20},
			)
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Walls = nil
		})

	add(EffectRandomWalls, CategoryField, 12*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			for i := 0; i < 3; i++ {
				x, y := s.randomInteriorPoint()
				w, h := 20.0, 120.0
				if s.rng.Intn(2) == 0 {
					w, h = h, w
				}
				s.Walls = append(s.Walls, Wall{ID: uuid.NewString(), X: x - w/2, Y: y - h/2, Width: w, Height: h})
			}
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Walls = nil
		})

	add(EffectBumpers, CategoryField, 12*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			for i := 0; i < 3; i++ {
				x, y := s.randomInteriorPoint()
				s.Bumpers = append(s.Bumpers, Bumper{ID: uuid.NewString(), X: x, Y: y, Radius: bumperRadius})
			}
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Bumpers = nil
		})

	add(EffectArkanoid, CategoryField, 15*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.spawnBrickGrid()
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Bricks = nil
		})

	add(EffectWind, CategoryField, 10*time.Second,
		func(s *State, eff *ActiveEffect, _ time.Time) {
			angle := s.rng.Float64() * 2 * math.Pi
			eff.X = math.Cos(angle)
			eff.Y = math.Sin(angle)
		},
		expireNoop)

	addPair(EffectEarthquake, CategoryField, 6*time.Second, func() (effectHandler, effectHandler) {
		apply := func(s *State, _ *ActiveEffect, _ time.Time) { s.Shake = true }
		expire := func(s *State, _ *ActiveEffect, _ time.Time) { s.Shake = false }
		return apply, expire
	})

	add(EffectSuperStriker, CategoryScore, aimWindow,
		func(s *State, eff *ActiveEffect, _ time.Time) {
			s.Ball.VX, s.Ball.VY = 0, 0
			eff.TargetX, eff.TargetY = s.randomInteriorPoint()
		},
		func(s *State, eff *ActiveEffect, _ time.Time) {
			if eff.launched {
				return
			}
			eff.launched = true
			dx := eff.TargetX - s.Ball.X
			dy := eff.TargetY - s.Ball.Y
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				dx, dy, dist = 1, 0, 1
			}
			speed := ballBaseSpeed * 2.2
			s.Ball.VX = dx / dist * speed
			s.Ball.VY = dy / dist * speed
		})

	add(EffectSwitchSides, CategoryScore, 1500*time.Millisecond,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			// Cyclic: left <- right <- bottom <- top <- left.
			l, r, t, b := s.Score[SideLeft], s.Score[SideRight], s.Score[SideTop], s.Score[SideBottom]
			s.Score[SideLeft] = r
			s.Score[SideRight] = b
			s.Score[SideBottom] = t
			s.Score[SideTop] = l
		},
		expireNoop)

	add(EffectScoreSteal, CategoryScore, 1500*time.Millisecond,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			thief := s.Ball.LastTouchedBy
			if !thief.Playing() {
				return
			}
			leader := SideNone
			best := 0
			for _, side := range PlaySides {
				if side != thief && s.Score[side] > best {
					best = s.Score[side]
					leader = side
				}
			}
			if leader != SideNone {
				s.Score[leader]--
				s.Score[thief]++
			}
		},
		expireNoop)

	add(EffectDoublePoints, CategoryScore, 15*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) { s.DoublePoints = true },
		func(s *State, _ *ActiveEffect, _ time.Time) { s.DoublePoints = false })

	add(EffectCoinShower, CategoryScore, 12*time.Second,
		func(s *State, _ *ActiveEffect, _ time.Time) {
			for i := 0; i < 8; i++ {
				x, y := s.randomInteriorPoint()
				s.Coins = append(s.Coins, Coin{ID: uuid.NewString(), X: x, Y: y, Size: coinRadius})
			}
		},
		func(s *State, _ *ActiveEffect, _ time.Time) {
			s.Coins = s.Coins[:0]
		})

	addPair(EffectDisco, CategoryCosmetic, 8*time.Second, func() (effectHandler, effectHandler) {
		apply := func(s *State, _ *ActiveEffect, _ time.Time) { s.Disco = true }
		expire := func(s *State, _ *ActiveEffect, _ time.Time) { s.Disco = false }
		return apply, expire
	})
	addPair(EffectBlackout, CategoryCosmetic, 6*time.Second, func() (effectHandler, effectHandler) {
		apply := func(s *State, _ *ActiveEffect, _ time.Time) { s.Blackout = true }
		expire := func(s *State, _ *ActiveEffect, _ time.Time) { s.Blackout = false }
		return apply, expire
	})

	return defs
}

var effectDefinitions = newEffectDefinitions()

// CatalogTypes returns every pickup type, for spawning and tooling.
func CatalogTypes() []EffectType {
	types := make([]EffectType, 0, len(effectDefinitions))
	for t := range effectDefinitions {
		types = append(types, t)
	}
	return types
}

// applyEffect instantiates and applies an active effect of the given type.
func (s *State) applyEffect(t EffectType, now time.Time) *ActiveEffect {
	def, ok := effectDefinitions[t]
	if !ok {
		return nil
	}
	eff := &ActiveEffect{
		ID:       uuid.NewString(),
		Type:     t,
		Start:    now.UnixMilli(),
		Duration: def.Duration.Milliseconds(),
	}
	def.Apply(s, eff, now)
	s.ActiveEffects = append(s.ActiveEffects, eff)
	return eff
}

// expireEffects removes every effect whose duration has elapsed, invoking
// its reversal routine first.
func (s *State) expireEffects(now time.Time) {
	if len(s.ActiveEffects) == 0 {
		return
	}
	kept := s.ActiveEffects[:0]
	for _, eff := range s.ActiveEffects {
		if eff.Expired(now) {
			if def, ok := effectDefinitions[eff.Type]; ok {
				def.Expire(s, eff, now)
			}
			continue
		}
		kept = append(kept, eff)
	}
	s.ActiveEffects = kept
}

func (s *State) randomPlaySide() Side {
	return PlaySides[s.rng.Intn(len(PlaySides))]
}

func (s *State) randomInteriorPoint() (float64, float64) {
	x := spawnPadding + s.rng.Float64()*(s.CanvasWidth-2*spawnPadding)
	y := spawnPadding + s.rng.Float64()*(s.CanvasHeight-2*spawnPadding)
	return x, y
}

// spawnBrickGrid lays out the fixed plus-shaped arkanoid grid around the
// field center.
func (s *State) spawnBrickGrid() {
	const (
		brickW = 44.0
		brickH = 24.0
		cells  = 5
	)
	originX := s.CanvasWidth/2 - brickW*cells/2
	originY := s.CanvasHeight/2 - brickH*cells/2
	for row := 0; row < cells; row++ {
		for col := 0; col < cells; col++ {
			if row != cells/2 && col != cells/2 {
				continue
			}
			s.Bricks = append(s.Bricks, Brick{
				ID:     uuid.NewString(),
				X:      originX + float64(col)*brickW,
				Y:      originY + float64(row)*brickH,
				Width:  brickW,
				Height: brickH,
			})
		}
	}
}

// releaseStuckBall relaunches a ball held by a sticky paddle, away from the
// paddle face.
func (s *State) releaseStuckBall(now time.Time) {
	side := s.Ball.stuckTo
	s.Ball.stuckTo = SideNone
	s.Ball.stuckUntil = time.Time{}
	speed := ballBaseSpeed + s.rng.Float64()*ballServeJitter
	spread := (s.rng.Float64() - 0.5) * 0.8
	switch side {
	case SideLeft:
		s.Ball.VX, s.Ball.VY = math.Cos(spread)*speed, math.Sin(spread)*speed
	case SideRight:
		s.Ball.VX, s.Ball.VY = -math.Cos(spread)*speed, math.Sin(spread)*speed
	case SideTop:
		s.Ball.VX, s.Ball.VY = math.Sin(spread)*speed, math.Cos(spread)*speed
	case SideBottom:
		s.Ball.VX, s.Ball.VY = math.Sin(spread)*speed, -math.Cos(spread)*speed
	}
	s.Ball.lastPaddleHit = now
}
