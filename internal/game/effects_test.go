package game

import (
	"math"
	"testing"
	"time"
)

func newTestState(now time.Time) *State {
	s := NewState()
	s.SeedRNG(1)
	s.Reset(now)
	return s
}

func TestCatalogEveryEntryHasApplyAndExpire(t *testing.T) {
	if len(effectDefinitions) != 41 {
		t.Fatalf("catalog has %d entries, want 41", len(effectDefinitions))
	}
	for typ, def := range effectDefinitions {
		if def.Apply == nil {
			t.Errorf("%s has no apply handler", typ)
		}
		if def.Expire == nil {
			t.Errorf("%s has no expire handler", typ)
		}
		if def.Duration <= 0 {
			t.Errorf("%s has non-positive duration", typ)
		}
		if def.Category == "" {
			t.Errorf("%s has no category", typ)
		}
	}
}

func expireAll(s *State, eff *ActiveEffect, now time.Time) time.Time {
	after := now.Add(time.Duration(eff.Duration)*time.Millisecond + time.Millisecond)
	s.expireEffects(after)
	return after
}

func TestBallSizeEffectRestoresExactly(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	for _, typ := range []EffectType{EffectBigBall, EffectSmallBall} {
		s := newTestState(now)
		before := s.Ball.Size
		eff := s.applyEffect(typ, now)
		if s.Ball.Size == before {
			t.Fatalf("%s did not change ball size", typ)
		}
		if eff.OriginalValue == nil || *eff.OriginalValue != before {
			t.Fatalf("%s saved original %v, want %v", typ, eff.OriginalValue, before)
		}
		expireAll(s, eff, now)
		if s.Ball.Size != before {
			t.Errorf("%s expiry restored size %v, want exactly %v", typ, s.Ball.Size, before)
		}
		if len(s.ActiveEffects) != 0 {
			t.Errorf("%s still listed after expiry", typ)
		}
	}
}

func TestBallSpeedEffectRestoresMagnitude(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	s.Ball.VX, s.Ball.VY = 200, 0
	eff := s.applyEffect(EffectSpeedUp, now)
	if got := s.Ball.Speed(); math.Abs(got-300) > 1e-9 {
		t.Fatalf("speed after apply = %v, want 300", got)
	}
	expireAll(s, eff, now)
	if got := s.Ball.Speed(); math.Abs(got-200) > 1e-9 {
		t.Errorf("speed after expiry = %v, want 200", got)
	}
}

func TestPaddleLengthEffectRestoresExactly(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	for _, typ := range []EffectType{EffectGrowPaddle, EffectShrinkPaddle, EffectGiantPaddle} {
		s := newTestState(now)
		eff := s.applyEffect(typ, now)
		if !eff.Side.Playing() {
			t.Fatalf("%s recorded no side", typ)
		}
		p := s.Paddles[eff.Side]
		if p.Length() == *eff.OriginalValue {
			t.Fatalf("%s did not change paddle length", typ)
		}
		expireAll(s, eff, now)
		if p.Length() != *eff.OriginalValue {
			t.Errorf("%s expiry restored length %v, want exactly %v", typ, p.Length(), *eff.OriginalValue)
		}
	}
}

func TestPaddleSpeedEffectRestoresExactly(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	for _, typ := range []EffectType{EffectFastPaddle, EffectSlowPaddle} {
		s := newTestState(now)
		eff := s.applyEffect(typ, now)
		p := s.Paddles[eff.Side]
		expireAll(s, eff, now)
		if p.Speed != *eff.OriginalValue {
			t.Errorf("%s expiry restored speed %v, want exactly %v", typ, p.Speed, *eff.OriginalValue)
		}
	}
}

func TestBallFlagEffectsClearOnExpiry(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	flags := map[EffectType]func(*Ball) bool{
		EffectDrunkBall:     func(b *Ball) bool { return b.Drunk },
		EffectCurveBall:     func(b *Ball) bool { return b.Curving },
		EffectMagnetBall:    func(b *Ball) bool { return b.Magnetic },
		EffectFloatBall:     func(b *Ball) bool { return b.Floating },
		EffectInvisibleBall: func(b *Ball) bool { return b.Invisible },
		EffectGhostBall:     func(b *Ball) bool { return b.Ghost },
		EffectMirrorBall:    func(b *Ball) bool { return b.Mirrored },
		EffectQuantumBall:   func(b *Ball) bool { return b.Quantum },
		EffectPortalBall:    func(b *Ball) bool { return b.PortalLinked },
		EffectTrailMines:    func(b *Ball) bool { return b.TrailMines },
		EffectFireBall:      func(b *Ball) bool { return b.OnFire },
	}
	for typ, get := range flags {
		s := newTestState(now)
		eff := s.applyEffect(typ, now)
		if !get(&s.Ball) {
			t.Errorf("%s did not set its ball flag", typ)
			continue
		}
		expireAll(s, eff, now)
		if get(&s.Ball) {
			t.Errorf("%s left its ball flag set after expiry", typ)
		}
	}
}

func TestMultiBallSpawnsAndClearsExtraBalls(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	eff := s.applyEffect(EffectMultiBall, now)
	if len(s.ExtraBalls) != 2 {
		t.Fatalf("spawned %d extra balls, want 2", len(s.ExtraBalls))
	}
	expireAll(s, eff, now)
	if len(s.ExtraBalls) != 0 {
		t.Errorf("extra balls not cleared on expiry")
	}
}

func TestFieldEffectsClearTheirArrays(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	cases := []struct {
		typ   EffectType
		count func(*State) int
	}{
		{EffectCenterWall, func(s *State) int { return len(s.Walls) }},
		{EffectRandomWalls, func(s *State) int { return len(s.Walls) }},
		{EffectBumpers, func(s *State) int { return len(s.Bumpers) }},
		{EffectArkanoid, func(s *State) int { return len(s.Bricks) }},
		{EffectCoinShower, func(s *State) int { return len(s.Coins) }},
	}
	for _, tc := range cases {
		s := newTestState(now)
		eff := s.applyEffect(tc.typ, now)
		if tc.count(s) == 0 {
			t.Errorf("%s spawned nothing", tc.typ)
			continue
		}
		expireAll(s, eff, now)
		if tc.count(s) != 0 {
			t.Errorf("%s left field objects after expiry", tc.typ)
		}
	}
}

func TestArkanoidGridIsPlusShaped(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	s.applyEffect(EffectArkanoid, now)
	if len(s.Bricks) != 9 {
		t.Fatalf("plus grid has %d bricks, want 9", len(s.Bricks))
	}
}

func TestSwitchSidesPermutesScoresCyclically(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	s.Score[SideLeft] = 1
	s.Score[SideRight] = 2
	s.Score[SideTop] = 3
	s.Score[SideBottom] = 4
	s.applyEffect(EffectSwitchSides, now)
	if s.Score[SideLeft] != 2 || s.Score[SideRight] != 4 || s.Score[SideBottom] != 3 || s.Score[SideTop] != 1 {
		t.Fatalf("scores after switch = %v", s.Score)
	}
}

func TestSuperStrikerFreezesThenLaunches(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	eff := s.applyEffect(EffectSuperStriker, now)
	if s.Ball.VX != 0 || s.Ball.VY != 0 {
		t.Fatal("ball not frozen during aim window")
	}
	expireAll(s, eff, now)
	if s.Ball.VX == 0 && s.Ball.VY == 0 {
		t.Fatal("ball not launched after aim window")
	}
	dx := eff.TargetX - s.CanvasWidth/2
	dy := eff.TargetY - s.CanvasHeight/2
	if dx*s.Ball.VX+dy*s.Ball.VY <= 0 {
		t.Error("launch velocity does not point toward the stored aim target")
	}
}

func TestStickyPaddleReleasesHeldBallOnExpiry(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	eff := s.applyEffect(EffectStickyPaddle, now)
	p := s.Paddles[eff.Side]
	if !p.Sticky {
		t.Fatal("sticky flag not set")
	}
	s.Ball.stuckTo = eff.Side
	s.Ball.VX, s.Ball.VY = 0, 0
	expireAll(s, eff, now)
	if s.Ball.stuckTo != SideNone {
		t.Error("ball still stuck after effect expiry")
	}
	if s.Ball.VX == 0 && s.Ball.VY == 0 {
		t.Error("ball not relaunched on release")
	}
}

func TestDoublePointsDoublesGoalAward(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	s.applyEffect(EffectDoublePoints, now)
	s.Ball.LastTouchedBy = SideLeft
	s.Ball.X = s.CanvasWidth + s.Ball.Size + 1
	s.Ball.lastBoundary = now.Add(-time.Second)
	s.resolveBoundary(now)
	if s.Score[SideLeft] != 2 {
		t.Fatalf("score = %d, want 2 with double points", s.Score[SideLeft])
	}
}

func TestPickupCollectionAppliesEffect(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	s.Pickups = append(s.Pickups[:0], Pickup{ID: "p", Type: EffectBigBall, X: s.Ball.X, Y: s.Ball.Y, Size: pickupRadius})
	s.collectPickups(now)
	if len(s.Pickups) != 0 {
		t.Fatal("pickup not collected")
	}
	if len(s.ActiveEffects) != 1 || s.ActiveEffects[0].Type != EffectBigBall {
		t.Fatal("collection did not instantiate the active effect")
	}
	if s.CollectedFlash == 0 {
		t.Error("collection did not start the flash timer")
	}
}

func TestSpawnIntervalRampsDownToFloor(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	if got := s.spawnInterval(now); got != spawnIntervalStart {
		t.Errorf("interval at start = %v, want %v", got, spawnIntervalStart)
	}
	mid := s.spawnInterval(now.Add(30 * time.Second))
	if mid >= spawnIntervalStart || mid <= spawnIntervalFloor {
		t.Errorf("interval at 30s = %v, want between floor and start", mid)
	}
	if got := s.spawnInterval(now.Add(2 * time.Minute)); got != spawnIntervalFloor {
		t.Errorf("interval after ramp = %v, want %v", got, spawnIntervalFloor)
	}
}

func TestPickupSpawnCapsAtTwo(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	s := newTestState(now)
	s.Ball.X, s.Ball.Y = -200, -200 // keep the ball away from spawned pickups
	s.nextPickupSpawn = now.Add(-time.Second)
	s.tickPickups(now)
	s.nextPickupSpawn = now.Add(-time.Second)
	s.tickPickups(now)
	s.nextPickupSpawn = now.Add(-time.Second)
	s.tickPickups(now)
	if len(s.Pickups) != maxLivePickups {
		t.Fatalf("%d live pickups, want %d", len(s.Pickups), maxLivePickups)
	}
}
