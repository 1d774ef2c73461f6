// Package game implements the authoritative simulation: ball and paddle
// movement, AI paddle control, collision resolution, scoring, and the
// pickup/effect engine. All mutation happens inside Advance or inside a
// handler invoked while the owning room is locked by the caller.
package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/spotUP/pong-websocket-server/internal/geom"
)

// Side is one of the four paddle-owning positions or the spectator slot.
type Side string

const (
	SideNone      Side = ""
	SideLeft      Side = "left"
	SideRight     Side = "right"
	SideTop       Side = "top"
	SideBottom    Side = "bottom"
	SideSpectator Side = "spectator"
)

// PlaySides lists the paddle-owning sides in simulation iteration order.
var PlaySides = []Side{SideLeft, SideRight, SideTop, SideBottom}

// Opposite returns the geometrically facing side.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	default:
		return SideNone
	}
}

// Playing reports whether the side owns a paddle.
func (s Side) Playing() bool {
	switch s {
	case SideLeft, SideRight, SideTop, SideBottom:
		return true
	default:
		return false
	}
}

func sideFromEdge(e geom.Edge) Side {
	switch e {
	case geom.EdgeLeft:
		return SideLeft
	case geom.EdgeRight:
		return SideRight
	case geom.EdgeTop:
		return SideTop
	case geom.EdgeBottom:
		return SideBottom
	default:
		return SideNone
	}
}

// Ball is the authoritative ball. The boolean flags are switched by active
// effects and drive per-tick behavior in the simulation loop.
type Ball struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Size float64 `json:"size"`

	Drunk        bool `json:"drunk,omitempty"`
	Curving      bool `json:"curving,omitempty"`
	Magnetic     bool `json:"magnetic,omitempty"`
	Floating     bool `json:"floating,omitempty"`
	Invisible    bool `json:"invisible,omitempty"`
	Ghost        bool `json:"ghost,omitempty"`
	Mirrored     bool `json:"mirrored,omitempty"`
	Quantum      bool `json:"quantum,omitempty"`
	PortalLinked bool `json:"portalLinked,omitempty"`
	TrailMines   bool `json:"trailMines,omitempty"`
	OnFire       bool `json:"onFire,omitempty"`

	LastTouchedBy     Side `json:"lastTouchedBy,omitempty"`
	PreviousTouchedBy Side `json:"previousTouchedBy,omitempty"`
	ColorIndex        int  `json:"colorIndex"`

	lastPaddleHit time.Time
	lastBoundary  time.Time
	lastMineDrop  time.Time
	lastQuantum   time.Time
	lastPortal    time.Time
	stuckTo       Side
	stuckUntil    time.Time
	wobblePhase   float64
}

// Paddle occupies one side. Left/right paddles slide along Y, top/bottom
// along X; the fixed coordinate is set at construction.
type Paddle struct {
	Side     Side    `json:"side"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Speed    float64 `json:"speed"`
	Velocity float64 `json:"velocity"`
	Target   float64 `json:"target"`

	// OriginalSize is the long-axis length at construction, restored when
	// size effects expire without a saved value and on game reset.
	OriginalSize float64 `json:"originalSize"`

	Reversed bool `json:"reversed,omitempty"`
	Frozen   bool `json:"frozen,omitempty"`
	Drunk    bool `json:"drunk,omitempty"`
	Sticky   bool `json:"sticky,omitempty"`

	aiTarget    float64
	hasAITarget bool
	prevPos     float64
	movedAt     time.Time
	wobblePhase float64
}

// Horizontal reports whether the paddle slides along the X axis.
func (p *Paddle) Horizontal() bool {
	return p.Side == SideTop || p.Side == SideBottom
}

// Pos returns the paddle's position along its movement axis (top-left corner).
func (p *Paddle) Pos() float64 {
	if p.Horizontal() {
		return p.X
	}
	return p.Y
}

// SetPos moves the paddle along its axis, clamped to the canvas.
func (p *Paddle) SetPos(v float64) {
	v = math.Max(0, math.Min(CanvasSize-p.Length(), v))
	if p.Horizontal() {
		p.X = v
	} else {
		p.Y = v
	}
}

// Length is the paddle's span along its movement axis.
func (p *Paddle) Length() float64 {
	if p.Horizontal() {
		return p.Width
	}
	return p.Height
}

// SetLength resizes the long axis, keeping the paddle centered on its span.
func (p *Paddle) SetLength(v float64) {
	old := p.Length()
	shift := (old - v) / 2
	if p.Horizontal() {
		p.Width = v
		p.X += shift
	} else {
		p.Height = v
		p.Y += shift
	}
	p.SetPos(p.Pos())
}

// Rect returns the paddle's bounding box.
func (p *Paddle) Rect() geom.Rect {
	return geom.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Pickup is a collectible on the field. Collecting it instantiates the
// matching active effect.
type Pickup struct {
	ID   string     `json:"id"`
	Type EffectType `json:"type"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	Size float64    `json:"size"`
}

// Coin awards a point to the ball's last toucher when collected.
type Coin struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// ActiveEffect is a running modifier. OriginalValue and Side record what the
// expiry handler needs to restore the mutated field exactly.
type ActiveEffect struct {
	ID       string     `json:"id"`
	Type     EffectType `json:"type"`
	Start    int64      `json:"start"`    // unix millis
	Duration int64      `json:"duration"` // millis

	OriginalValue *float64 `json:"originalValue,omitempty"`
	Side          Side     `json:"side,omitempty"`
	X             float64  `json:"x,omitempty"`
	Y             float64  `json:"y,omitempty"`
	TargetX       float64  `json:"targetX,omitempty"`
	TargetY       float64  `json:"targetY,omitempty"`

	launched bool // super_striker: aim already resolved
}

// Expired reports whether the effect's duration has fully elapsed.
func (e *ActiveEffect) Expired(now time.Time) bool {
	return now.UnixMilli() >= e.Start+e.Duration
}

// ExtraBall is a short-lived secondary ball spawned by multi_ball. Extra
// balls collect pickups and coins but never score.
type ExtraBall struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Size float64 `json:"size"`
}

// Wall is a rectangular field obstacle the ball bounces off.
type Wall struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bumper is a circular field obstacle that rebounds the ball outward.
type Bumper struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Brick is one cell of the arkanoid grid. Destroying a brick scores for the
// ball's last toucher.
type Brick struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mine is dropped along the ball's trail and knocks the ball away on contact.
type Mine struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// State is the authoritative per-room game state. It is mutated only by the
// simulation tick and by gamemaster commands, both under the room's lock.
type State struct {
	Ball    Ball             `json:"ball"`
	Paddles map[Side]*Paddle `json:"paddles"`
	Score   map[Side]int     `json:"score"`

	IsPlaying  bool  `json:"isPlaying"`
	IsPaused   bool  `json:"isPaused"`
	GameEnded  bool  `json:"gameEnded"`
	Winner     Side  `json:"winner,omitempty"`
	PauseUntil int64 `json:"pauseUntil,omitempty"` // unix millis

	Pickups       []Pickup        `json:"pickups"`
	Coins         []Coin          `json:"coins"`
	ActiveEffects []*ActiveEffect `json:"activeEffects"`
	ExtraBalls    []*ExtraBall    `json:"extraBalls,omitempty"`
	Walls         []Wall          `json:"walls,omitempty"`
	Bumpers       []Bumper        `json:"bumpers,omitempty"`
	Bricks        []Brick         `json:"bricks,omitempty"`
	Mines         []Mine          `json:"mines,omitempty"`

	DoublePoints bool `json:"doublePoints,omitempty"`
	Shake        bool `json:"shake,omitempty"`
	Disco        bool `json:"disco,omitempty"`
	Blackout     bool `json:"blackout,omitempty"`

	// Transient visual flags, cleared at the start of the next tick.
	Rumble         bool  `json:"rumble,omitempty"`
	CollectedFlash int64 `json:"collectedFlash,omitempty"` // unix millis, shown until

	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`

	nextPickupSpawn time.Time
	activeSince     time.Time
	rng             *rand.Rand
}

// NewState builds an idle state with four centered paddles and a parked ball.
func NewState() *State {
	s := &State{
		Paddles:       make(map[Side]*Paddle, 4),
		Score:         make(map[Side]int, 4),
		Pickups:       make([]Pickup, 0),
		Coins:         make([]Coin, 0),
		ActiveEffects: make([]*ActiveEffect, 0),
		CanvasWidth:   CanvasSize,
		CanvasHeight:  CanvasSize,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, side := range PlaySides {
		s.Paddles[side] = newPaddle(side)
		s.Score[side] = 0
	}
	s.centerBall()
	return s
}

func newPaddle(side Side) *Paddle {
	p := &Paddle{
		Side:         side,
		Speed:        PaddleSpeed,
		OriginalSize: PaddleLength,
	}
	mid := (CanvasSize - PaddleLength) / 2
	switch side {
	case SideLeft:
		p.X, p.Y = PaddleMargin, mid
		p.Width, p.Height = PaddleThickness, PaddleLength
	case SideRight:
		p.X, p.Y = CanvasSize-PaddleMargin-PaddleThickness, mid
		p.Width, p.Height = PaddleThickness, PaddleLength
	case SideTop:
		p.X, p.Y = mid, PaddleMargin
		p.Width, p.Height = PaddleLength, PaddleThickness
	case SideBottom:
		p.X, p.Y = mid, CanvasSize-PaddleMargin-PaddleThickness
		p.Width, p.Height = PaddleLength, PaddleThickness
	}
	p.Target = p.Pos()
	return p
}

// Reset returns the room to fresh-game conditions: zero scores, cleared
// effects and field objects, restored paddles, and a newly served ball.
func (s *State) Reset(now time.Time) {
	for _, side := range PlaySides {
		s.Score[side] = 0
		p := s.Paddles[side]
		p.SetLength(p.OriginalSize)
		p.Speed = PaddleSpeed
		p.Reversed, p.Frozen, p.Drunk, p.Sticky = false, false, false, false
		p.hasAITarget = false
	}
	s.clearFieldState()
	s.IsPlaying = true
	s.IsPaused = false
	s.GameEnded = false
	s.Winner = SideNone
	s.PauseUntil = 0
	s.activeSince = now
	s.nextPickupSpawn = now.Add(spawnIntervalStart)
	s.serveBall(now)
}

func (s *State) clearFieldState() {
	s.Pickups = s.Pickups[:0]
	s.Coins = s.Coins[:0]
	s.ActiveEffects = s.ActiveEffects[:0]
	s.ExtraBalls = nil
	s.Walls = nil
	s.Bumpers = nil
	s.Bricks = nil
	s.Mines = nil
	s.DoublePoints, s.Shake, s.Disco, s.Blackout = false, false, false, false
	s.Rumble = false
	s.CollectedFlash = 0
}

func (s *State) centerBall() {
	s.Ball = Ball{
		X:    s.CanvasWidth / 2,
		Y:    s.CanvasHeight / 2,
		Size: BallSize,
	}
}

// serveBall re-centers the ball and gives it a small randomized velocity,
// clearing touch attribution and modifier flags.
func (s *State) serveBall(now time.Time) {
	color := s.Ball.ColorIndex
	s.centerBall()
	s.Ball.ColorIndex = color
	speed := ballBaseSpeed + s.rng.Float64()*ballServeJitter
	angle := s.rng.Float64() * 2 * math.Pi
	s.Ball.VX = math.Cos(angle) * speed
	s.Ball.VY = math.Sin(angle) * speed
	s.Ball.lastBoundary = now
	s.Ball.lastPaddleHit = now
}

// Rect returns the main ball's bounding box.
func (b *Ball) Rect() geom.Rect {
	return geom.Rect{X: b.X - b.Size, Y: b.Y - b.Size, Width: b.Size * 2, Height: b.Size * 2}
}

// Speed returns the current velocity magnitude.
func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// setSpeed rescales velocity to the given magnitude, preserving direction.
func (b *Ball) setSpeed(v float64) {
	cur := b.Speed()
	if cur == 0 {
		b.VX = v
		return
	}
	scale := v / cur
	b.VX *= scale
	b.VY *= scale
}

// SeedRNG replaces the state's random source. Tests use it for determinism.
func (s *State) SeedRNG(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
