// Package protocol defines the wire messages exchanged with clients and the
// single decode boundary that turns raw frames into typed commands. Unknown
// or malformed payloads fail here, before any handler runs.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spotUP/pong-websocket-server/internal/game"
)

type MessageType string

// Inbound message types.
const (
	TypeJoinRoom             MessageType = "join_room"
	TypeUpdatePaddle         MessageType = "update_paddle"
	TypeUpdateGameState      MessageType = "update_game_state"
	TypeUpdateGameStateDelta MessageType = "update_game_state_delta"
	TypeResetRoom            MessageType = "reset_room"
	TypePing                 MessageType = "ping"
)

// Outbound message types.
const (
	TypeJoinedRoom         MessageType = "joined_room"
	TypePlayerJoined       MessageType = "player_joined"
	TypePaddleUpdated      MessageType = "paddle_updated"
	TypeGameStateUpdated   MessageType = "game_state_updated"
	TypeGameReset          MessageType = "game_reset"
	TypeGamemasterAssigned MessageType = "gamemaster_assigned"
	TypePlayerLeft         MessageType = "player_left"
	TypeServerGameUpdate   MessageType = "server_game_update"
	TypeHeartbeat          MessageType = "heartbeat"
	TypePong               MessageType = "pong"
	TypeError              MessageType = "error"
)

// aliases maps the documented compact tags onto canonical types, keeping
// mobile clients' frames small.
var aliases = map[string]MessageType{
	"jr":   TypeJoinRoom,
	"up":   TypeUpdatePaddle,
	"ugs":  TypeUpdateGameState,
	"ugsd": TypeUpdateGameStateDelta,
	"rr":   TypeResetRoom,
	"pi":   TypePing,
}

var (
	ErrMalformed   = errors.New("protocol: malformed payload")
	ErrUnknownType = errors.New("protocol: unknown message type")
)

// Envelope is the outer shape of every inbound frame.
type Envelope struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId"`
	RoomID   string          `json:"roomId"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// JoinData carries join_room options.
type JoinData struct {
	ForceSpectator bool `json:"forceSpectator,omitempty"`
}

// PaddleData carries a sequenced paddle input. Vertical paddles send Y and
// TargetY, horizontal ones X and TargetX; the compact form accepts either.
type PaddleData struct {
	Y        *float64 `json:"y,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Velocity float64  `json:"velocity,omitempty"`
	TargetY  *float64 `json:"targetY,omitempty"`
	TargetX  *float64 `json:"targetX,omitempty"`
	Seq      uint64   `json:"seq"`
}

// Pos returns the position coordinate and target for whichever axis the
// client filled in.
func (d PaddleData) Pos() (pos, target float64, ok bool) {
	switch {
	case d.Y != nil:
		pos = *d.Y
		target = pos
		if d.TargetY != nil {
			target = *d.TargetY
		}
		return pos, target, true
	case d.X != nil:
		pos = *d.X
		target = pos
		if d.TargetX != nil {
			target = *d.TargetX
		}
		return pos, target, true
	default:
		return 0, 0, false
	}
}

// Command is the decoded, typed form of one inbound frame. Exactly one of
// the payload pointers is set, matching Type.
type Command struct {
	Type     MessageType
	PlayerID string
	RoomID   string

	Join   *JoinData
	Paddle *PaddleData
	Full   *game.State
	Delta  *game.StateDelta
	Raw    json.RawMessage // original data payload, for broadcast relay
}

// Decode parses a raw frame into a Command, resolving compact aliases and
// rejecting unknown types.
func Decode(payload []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	typ := MessageType(env.Type)
	if canonical, ok := aliases[env.Type]; ok {
		typ = canonical
	}

	cmd := Command{Type: typ, PlayerID: env.PlayerID, RoomID: env.RoomID, Raw: env.Data}

	switch typ {
	case TypeJoinRoom:
		cmd.Join = &JoinData{}
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, cmd.Join); err != nil {
				return Command{}, fmt.Errorf("%w: join_room: %v", ErrMalformed, err)
			}
		}
	case TypeUpdatePaddle:
		cmd.Paddle = &PaddleData{}
		if err := json.Unmarshal(env.Data, cmd.Paddle); err != nil {
			return Command{}, fmt.Errorf("%w: update_paddle: %v", ErrMalformed, err)
		}
	case TypeUpdateGameState:
		cmd.Full = &game.State{}
		if err := json.Unmarshal(env.Data, cmd.Full); err != nil {
			return Command{}, fmt.Errorf("%w: update_game_state: %v", ErrMalformed, err)
		}
	case TypeUpdateGameStateDelta:
		cmd.Delta = &game.StateDelta{}
		if err := json.Unmarshal(env.Data, cmd.Delta); err != nil {
			return Command{}, fmt.Errorf("%w: update_game_state_delta: %v", ErrMalformed, err)
		}
	case TypeResetRoom, TypePing:
		// No payload.
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	return cmd, nil
}
