package game

// StateDelta is a partial gamemaster update applied over the authoritative
// state. Score is present in the wire format for legacy clients but is
// server-authoritative: the registry logs and discards it before applying.
type StateDelta struct {
	Ball      *Ball            `json:"ball,omitempty"`
	Paddles   map[Side]*Paddle `json:"paddles,omitempty"`
	IsPlaying *bool            `json:"isPlaying,omitempty"`
	IsPaused  *bool            `json:"isPaused,omitempty"`
	GameEnded *bool            `json:"gameEnded,omitempty"`
	Winner    *Side            `json:"winner,omitempty"`
	Score     map[Side]int     `json:"score,omitempty"`
}

// HasScore reports whether the client tried to submit score changes.
func (d StateDelta) HasScore() bool { return len(d.Score) > 0 }

// ApplyDelta merges a partial gamemaster update. Score is never touched.
func (s *State) ApplyDelta(d StateDelta) {
	if d.Ball != nil {
		s.replaceBall(*d.Ball)
	}
	for side, np := range d.Paddles {
		if p, ok := s.Paddles[side]; ok && np != nil {
			copyPaddle(p, np)
		}
	}
	if d.IsPlaying != nil {
		s.IsPlaying = *d.IsPlaying
	}
	if d.IsPaused != nil {
		s.IsPaused = *d.IsPaused
		if !s.IsPaused {
			s.PauseUntil = 0
		}
	}
	if d.GameEnded != nil {
		s.GameEnded = *d.GameEnded
	}
	if d.Winner != nil {
		s.Winner = *d.Winner
	}
}

// ApplyFull overwrites ball, paddles, and play flags from a gamemaster's
// full state submission. Score and the server-owned effect arrays stay.
func (s *State) ApplyFull(u *State) {
	if u == nil {
		return
	}
	s.replaceBall(u.Ball)
	for side, np := range u.Paddles {
		if p, ok := s.Paddles[side]; ok && np != nil {
			copyPaddle(p, np)
		}
	}
	s.IsPlaying = u.IsPlaying
	s.IsPaused = u.IsPaused
	s.GameEnded = u.GameEnded
	s.Winner = u.Winner
	s.PauseUntil = u.PauseUntil
}

// replaceBall swaps in client-supplied ball fields while keeping the
// server's internal cooldown timers intact.
func (s *State) replaceBall(b Ball) {
	saved := s.Ball
	s.Ball = b
	s.Ball.lastPaddleHit = saved.lastPaddleHit
	s.Ball.lastBoundary = saved.lastBoundary
	s.Ball.lastMineDrop = saved.lastMineDrop
	s.Ball.lastQuantum = saved.lastQuantum
	s.Ball.lastPortal = saved.lastPortal
	s.Ball.stuckTo = saved.stuckTo
	s.Ball.stuckUntil = saved.stuckUntil
	s.Ball.wobblePhase = saved.wobblePhase
}

func copyPaddle(dst, src *Paddle) {
	dst.X = src.X
	dst.Y = src.Y
	dst.Width = src.Width
	dst.Height = src.Height
	dst.Speed = src.Speed
	dst.Velocity = src.Velocity
	dst.Target = src.Target
	dst.Reversed = src.Reversed
	dst.Frozen = src.Frozen
	dst.Drunk = src.Drunk
	dst.Sticky = src.Sticky
}
