package protocol

import (
	"encoding/json"

	"github.com/spotUP/pong-websocket-server/internal/game"
)

// JoinedRoom confirms a join and ships the current authoritative state.
type JoinedRoom struct {
	Type       MessageType `json:"type"`
	PlayerID   string      `json:"playerId"`
	RoomID     string      `json:"roomId"`
	Side       game.Side   `json:"side"`
	Gamemaster string      `json:"gamemaster,omitempty"`
	State      *game.State `json:"state"`
}

// PlayerJoined notifies existing room members of a new arrival.
type PlayerJoined struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
	Side     game.Side   `json:"side"`
}

// PlayerLeft notifies room members of a departure.
type PlayerLeft struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
	Side     game.Side   `json:"side"`
}

// PaddleUpdated relays an accepted paddle input to the rest of the room.
type PaddleUpdated struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
	Side     game.Side   `json:"side"`
	Pos      float64     `json:"pos"`
	Velocity float64     `json:"velocity"`
	Seq      uint64      `json:"seq"`
}

// GamemasterAssigned tells a player it now holds the gamemaster role.
type GamemasterAssigned struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
}

// SidePromoted tells a spectator it has been promoted to a playing side.
// Sent with the player_joined type, a shape clients already handle.
type SidePromoted struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
	Side     game.Side   `json:"side"`
}

// GameStateUpdated broadcasts a gamemaster's accepted full-state overwrite.
type GameStateUpdated struct {
	Type  MessageType `json:"type"`
	State *game.State `json:"state"`
}

// DeltaRelay re-broadcasts a gamemaster delta verbatim to other members.
type DeltaRelay struct {
	Type     MessageType     `json:"type"`
	PlayerID string          `json:"playerId"`
	Data     json.RawMessage `json:"data"`
}

// GameReset broadcasts the fresh state after a gamemaster reset.
type GameReset struct {
	Type  MessageType `json:"type"`
	State *game.State `json:"state"`
}

// ServerGameUpdate is the per-tick authoritative snapshot.
type ServerGameUpdate struct {
	Type       MessageType `json:"type"`
	RoomID     string      `json:"roomId"`
	State      *game.State `json:"state"`
	ServerTime int64       `json:"serverTime"`
}

// Heartbeat is the periodic liveness ping pushed to every connection.
type Heartbeat struct {
	Type       MessageType `json:"type"`
	ServerTime int64       `json:"serverTime"`
}

// Pong answers a client ping.
type Pong struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorMessage reports a malformed frame back to its sender only.
type ErrorMessage struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error"`
}

// Encode marshals any outbound message to a UTF-8 JSON frame.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
