package game

import "time"

// Field and paddle geometry.
const (
	CanvasSize      = 800.0
	BallSize        = 10.0
	PaddleLength    = 100.0
	PaddleThickness = 14.0
	PaddleMargin    = 20.0
	PaddleSpeed     = 600.0 // px/s
	PaddleMinLength = 40.0
	PaddleMaxLength = 300.0
)

// Ball motion.
const (
	ballBaseSpeed    = 250.0 // px/s magnitude on serve
	ballServeJitter  = 60.0  // extra random magnitude on serve
	maxBallComponent = 900.0 // hard clamp per velocity component
	divergenceBound  = 10.0 * CanvasSize

	maxDeflectionRad = 82.0 * 3.14159265358979 / 180.0
	centerDeadzone   = 0.15 // normalized hit offsets below this are re-randomized
	minDeflection    = 0.2
	maxMinDeflection = 0.3
	hitSpeedBoost    = 1.05 // flat multiplicative boost per paddle hit
	hitCenterBoost   = 0.10 // extra boost scaled by distance from paddle center
)

// Detection cooldowns and pause windows.
const (
	paddleHitCooldown = 50 * time.Millisecond
	boundaryCooldown  = 200 * time.Millisecond
	goalPause         = 2 * time.Second
	aimWindow         = 4 * time.Second
	collectedFlash    = 600 * time.Millisecond
)

// Scoring.
const WinScore = 1000

// AI paddle control.
const (
	aiMaxPredictSteps  = 300
	aiImperfection     = 15.0 // px of random error on every prediction
	aiMistakeChance    = 0.20
	aiMistakeOffset    = 40.0
	aiRetargetDelta    = 20.0 // recompute only when prediction moves this far
	aiDeadzone         = 5.0
	aiApproachDivisor  = 0.12 // fraction of remaining distance covered per tick clamp
	aiIdleReturnFactor = 0.04 // drift back toward center with no approaching ball
)

// Pickup spawning.
const (
	maxLivePickups     = 2
	pickupRadius       = 14.0
	coinRadius         = 9.0
	spawnIntervalStart = 15 * time.Second
	spawnIntervalFloor = 10 * time.Second
	spawnRampWindow    = time.Minute
	spawnPadding       = 120.0 // keep pickups out of the paddle zones
)

// Per-effect mechanics.
const (
	mineDropInterval    = 800 * time.Millisecond
	mineRadius          = 12.0
	quantumJumpInterval = time.Second
	quantumJumpRange    = 70.0
	fieldForceStrength  = 420.0 // gravity wells, repulsors
	blackHoleStrength   = 900.0
	blackHoleCoreRadius = 26.0
	windStrength        = 180.0
	portalRadius        = 24.0
	bumperRadius        = 22.0
	stickyHoldTime      = time.Second
)
