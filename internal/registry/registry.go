// Package registry owns the room and player maps. It is the only component
// mutated directly by inbound messages; everything else changes on the tick.
// One mutex serializes message handling, the tick pass, and the idle sweep.
package registry

import (
	"log/slog"
	"sync"
	"time"

	"github.com/spotUP/pong-websocket-server/internal/game"
	"github.com/spotUP/pong-websocket-server/internal/protocol"
)

// MainRoomID is the persistent room created at startup. It deactivates when
// empty but is never deleted.
const MainRoomID = "main"

// sideOrder is the assignment preference for joining players. The first
// vacant entry wins; a full room yields spectator.
var sideOrder = []game.Side{game.SideRight, game.SideLeft, game.SideTop, game.SideBottom}

// Conn is the outbound half of a client connection. Implementations must be
// safe for concurrent Send calls.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// Player is one connected client. The registry is the sole writer of Side,
// RoomID, and LastSeen.
type Player struct {
	ID       string
	Side     game.Side
	Conn     Conn
	RoomID   string
	LastSeen time.Time

	lastSeq uint64
}

// Room is one isolated game session.
type Room struct {
	ID         string
	State      *game.State
	Players    map[string]*Player
	Gamemaster string
	LastUpdate time.Time
	Active     bool
}

func (r *Room) humanSides() map[game.Side]bool {
	sides := make(map[game.Side]bool, len(r.Players))
	for _, p := range r.Players {
		if p.Side.Playing() {
			sides[p.Side] = true
		}
	}
	return sides
}

// Options carries the registry's tunables.
type Options struct {
	IdleTimeout time.Duration
}

// Registry maps room ids to rooms and player ids to players.
type Registry struct {
	mu      sync.Mutex
	log     *slog.Logger
	rooms   map[string]*Room
	players map[string]*Player
	opts    Options
}

// New builds a registry with the persistent main room already present.
func New(log *slog.Logger, opts Options) *Registry {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Second
	}
	reg := &Registry{
		log:     log,
		rooms:   make(map[string]*Room),
		players: make(map[string]*Player),
		opts:    opts,
	}
	reg.rooms[MainRoomID] = newRoom(MainRoomID)
	return reg
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		State:   game.NewState(),
		Players: make(map[string]*Player),
	}
}

// Handle dispatches one decoded inbound command. Unknown players and rooms
// are dropped silently; late frames from closed connections are expected.
func (reg *Registry) Handle(conn Conn, cmd protocol.Command, now time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	switch cmd.Type {
	case protocol.TypeJoinRoom:
		reg.joinRoom(conn, cmd.PlayerID, cmd.RoomID, cmd.Join.ForceSpectator, now)
	case protocol.TypeUpdatePaddle:
		reg.updatePaddle(cmd.PlayerID, cmd.Paddle, now)
	case protocol.TypeUpdateGameState:
		reg.updateGameState(cmd.PlayerID, cmd.Full, now)
	case protocol.TypeUpdateGameStateDelta:
		reg.updateGameStateDelta(cmd.PlayerID, cmd.Delta, cmd.Raw, now)
	case protocol.TypeResetRoom:
		reg.resetRoom(cmd.PlayerID, now)
	case protocol.TypePing:
		reg.ping(cmd.PlayerID, now)
	}
}

func (reg *Registry) joinRoom(conn Conn, playerID, roomID string, forceSpectator bool, now time.Time) {
	if playerID == "" {
		return
	}
	if roomID == "" {
		roomID = MainRoomID
	}
	// Drop any previous session first: disconnecting can delete the old
	// room, so the target room must be resolved afterwards.
	if prev, ok := reg.players[playerID]; ok {
		reg.disconnect(prev.ID, now)
	}
	room, ok := reg.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		reg.rooms[roomID] = room
		reg.log.Info("room created", "room", roomID)
	}

	side := game.SideSpectator
	if !forceSpectator {
		taken := make(map[game.Side]bool, len(room.Players))
		for _, p := range room.Players {
			taken[p.Side] = true
		}
		for _, candidate := range sideOrder {
			if !taken[candidate] {
				side = candidate
				break
			}
		}
	}

	player := &Player{ID: playerID, Side: side, Conn: conn, RoomID: roomID, LastSeen: now}
	room.Players[playerID] = player
	reg.players[playerID] = player
	room.LastUpdate = now
	room.Active = true

	if room.Gamemaster == "" && side.Playing() {
		room.Gamemaster = playerID
	}

	// Fresh game on join: any human arrival restarts the room's match.
	room.State.Reset(now)

	reg.log.Info("player joined", "player", playerID, "room", roomID, "side", side)

	reg.sendTo(player, protocol.JoinedRoom{
		Type:       protocol.TypeJoinedRoom,
		PlayerID:   playerID,
		RoomID:     roomID,
		Side:       side,
		Gamemaster: room.Gamemaster,
		State:      room.State,
	})
	reg.broadcastExcept(room, playerID, protocol.PlayerJoined{
		Type:     protocol.TypePlayerJoined,
		PlayerID: playerID,
		Side:     side,
	})
	if room.Gamemaster == playerID {
		reg.sendTo(player, protocol.GamemasterAssigned{
			Type:     protocol.TypeGamemasterAssigned,
			PlayerID: playerID,
		})
	}
}

func (reg *Registry) updatePaddle(playerID string, data *protocol.PaddleData, now time.Time) {
	player, room := reg.lookup(playerID)
	if player == nil || data == nil {
		return
	}
	player.LastSeen = now
	if !player.Side.Playing() {
		return
	}
	if data.Seq <= player.lastSeq {
		reg.log.Debug("stale paddle update dropped", "player", playerID, "seq", data.Seq, "accepted", player.lastSeq)
		return
	}
	pos, target, ok := data.Pos()
	if !ok {
		return
	}
	player.lastSeq = data.Seq
	room.State.ApplyPaddleInput(player.Side, pos, data.Velocity, target, now)
	room.LastUpdate = now

	p := room.State.Paddles[player.Side]
	reg.broadcastExcept(room, playerID, protocol.PaddleUpdated{
		Type:     protocol.TypePaddleUpdated,
		PlayerID: playerID,
		Side:     player.Side,
		Pos:      p.Pos(),
		Velocity: p.Velocity,
		Seq:      data.Seq,
	})
}

func (reg *Registry) updateGameState(playerID string, full *game.State, now time.Time) {
	player, room := reg.lookup(playerID)
	if player == nil || full == nil {
		return
	}
	player.LastSeen = now
	if room.Gamemaster != playerID {
		reg.log.Debug("full state update from non-gamemaster dropped", "player", playerID)
		return
	}
	room.State.ApplyFull(full)
	room.LastUpdate = now
	reg.broadcastExcept(room, playerID, protocol.GameStateUpdated{
		Type:  protocol.TypeGameStateUpdated,
		State: room.State,
	})
}

func (reg *Registry) updateGameStateDelta(playerID string, delta *game.StateDelta, raw []byte, now time.Time) {
	player, room := reg.lookup(playerID)
	if player == nil || delta == nil {
		return
	}
	player.LastSeen = now
	if room.Gamemaster != playerID {
		reg.log.Debug("delta from non-gamemaster dropped", "player", playerID)
		return
	}
	if delta.HasScore() {
		// Scoring is server-authoritative. Log the attempt, keep our numbers.
		reg.log.Warn("client-submitted score discarded", "player", playerID, "room", room.ID)
	}
	room.State.ApplyDelta(*delta)
	room.LastUpdate = now
	reg.broadcastExcept(room, playerID, protocol.DeltaRelay{
		Type:     protocol.TypeUpdateGameStateDelta,
		PlayerID: playerID,
		Data:     raw,
	})
}

func (reg *Registry) resetRoom(playerID string, now time.Time) {
	player, room := reg.lookup(playerID)
	if player == nil {
		return
	}
	player.LastSeen = now
	if room.Gamemaster != playerID {
		return
	}
	room.State.Reset(now)
	room.LastUpdate = now
	reg.log.Info("room reset", "room", room.ID, "by", playerID)
	reg.broadcast(room, protocol.GameReset{
		Type:  protocol.TypeGameReset,
		State: room.State,
	})
}

func (reg *Registry) ping(playerID string, now time.Time) {
	player, _ := reg.lookup(playerID)
	if player == nil {
		return
	}
	player.LastSeen = now
	reg.sendTo(player, protocol.Pong{
		Type:      protocol.TypePong,
		Timestamp: now.UnixMilli(),
	})
}

// Disconnect removes a player, reassigning the gamemaster role and promoting
// a spectator into the vacated side when possible.
func (reg *Registry) Disconnect(playerID string, now time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.disconnect(playerID, now)
}

func (reg *Registry) disconnect(playerID string, now time.Time) {
	player, ok := reg.players[playerID]
	if !ok {
		return
	}
	delete(reg.players, playerID)
	room, ok := reg.rooms[player.RoomID]
	if !ok {
		return
	}
	delete(room.Players, playerID)
	reg.log.Info("player left", "player", playerID, "room", room.ID, "side", player.Side)

	if len(room.Players) == 0 {
		room.State.IsPlaying = false
		room.Active = false
		room.LastUpdate = now
		if room.ID != MainRoomID {
			delete(reg.rooms, room.ID)
			reg.log.Info("room deleted", "room", room.ID)
		}
		return
	}

	if room.Gamemaster == playerID {
		for id := range room.Players {
			room.Gamemaster = id
			reg.sendTo(room.Players[id], protocol.GamemasterAssigned{
				Type:     protocol.TypeGamemasterAssigned,
				PlayerID: id,
			})
			reg.log.Info("gamemaster reassigned", "room", room.ID, "player", id)
			break
		}
	}

	if player.Side.Playing() {
		for _, candidate := range room.Players {
			if candidate.Side == game.SideSpectator {
				candidate.Side = player.Side
				reg.sendTo(candidate, protocol.SidePromoted{
					Type:     protocol.TypePlayerJoined,
					PlayerID: candidate.ID,
					Side:     candidate.Side,
				})
				reg.log.Info("spectator promoted", "room", room.ID, "player", candidate.ID, "side", candidate.Side)
				break
			}
		}
	}

	reg.broadcast(room, protocol.PlayerLeft{
		Type:     protocol.TypePlayerLeft,
		PlayerID: playerID,
		Side:     player.Side,
	})
}

// Sweep disconnects players unseen past the idle timeout and deletes empty
// non-main rooms idle past the same timeout.
func (reg *Registry) Sweep(now time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var stale []string
	for id, p := range reg.players {
		if now.Sub(p.LastSeen) > reg.opts.IdleTimeout {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		reg.log.Info("idle player swept", "player", id)
		if p := reg.players[id]; p != nil && p.Conn != nil {
			p.Conn.Close()
		}
		reg.disconnect(id, now)
	}

	for id, room := range reg.rooms {
		if id == MainRoomID || len(room.Players) > 0 {
			continue
		}
		if now.Sub(room.LastUpdate) > reg.opts.IdleTimeout {
			delete(reg.rooms, id)
			reg.log.Info("idle room deleted", "room", id)
		}
	}
}

// Tick advances every active room by dt seconds and returns the pending
// broadcasts. Frames are marshaled under the lock; the caller writes them
// after this method returns so slow sockets never stall the simulation.
func (reg *Registry) Tick(now time.Time, dt float64) []Outbound {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var out []Outbound
	for _, room := range reg.rooms {
		if !room.Active {
			continue
		}
		room.State.Advance(room.humanSides(), now, dt)
		payload, err := protocol.Encode(protocol.ServerGameUpdate{
			Type:       protocol.TypeServerGameUpdate,
			RoomID:     room.ID,
			State:      room.State,
			ServerTime: now.UnixMilli(),
		})
		if err != nil {
			reg.log.Error("snapshot encode failed", "room", room.ID, "error", err)
			continue
		}
		for _, p := range room.Players {
			out = append(out, Outbound{Conn: p.Conn, Payload: payload})
		}
	}
	return out
}

// Heartbeat returns a liveness frame addressed to every connection.
func (reg *Registry) Heartbeat(now time.Time) []Outbound {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	payload, err := protocol.Encode(protocol.Heartbeat{
		Type:       protocol.TypeHeartbeat,
		ServerTime: now.UnixMilli(),
	})
	if err != nil {
		reg.log.Error("heartbeat encode failed", "error", err)
		return nil
	}
	out := make([]Outbound, 0, len(reg.players))
	for _, p := range reg.players {
		out = append(out, Outbound{Conn: p.Conn, Payload: payload})
	}
	return out
}

// Outbound is one marshaled frame addressed to one connection.
type Outbound struct {
	Conn    Conn
	Payload []byte
}

// Send writes the frame, tolerating nil connections.
func (o Outbound) Send() error {
	if o.Conn == nil {
		return nil
	}
	return o.Conn.Send(o.Payload)
}

// RoomStats summarizes one room for the HTTP stats surface.
type RoomStats struct {
	RoomID     string `json:"roomId"`
	Players    int    `json:"players"`
	Gamemaster string `json:"gamemaster,omitempty"`
	IsActive   bool   `json:"isActive"`
}

// Stats is the registry-wide summary. Rooms counts active rooms only;
// deactivated rooms still appear in PerRoom.
type Stats struct {
	Rooms   int         `json:"rooms"`
	Players int         `json:"players"`
	PerRoom []RoomStats `json:"perRoom"`
}

// Snapshot returns current registry statistics.
func (reg *Registry) Snapshot() Stats {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	st := Stats{Players: len(reg.players)}
	for _, room := range reg.rooms {
		if room.Active {
			st.Rooms++
		}
		st.PerRoom = append(st.PerRoom, RoomStats{
			RoomID:     room.ID,
			Players:    len(room.Players),
			Gamemaster: room.Gamemaster,
			IsActive:   room.Active,
		})
	}
	return st
}

func (reg *Registry) lookup(playerID string) (*Player, *Room) {
	player, ok := reg.players[playerID]
	if !ok {
		return nil, nil
	}
	room, ok := reg.rooms[player.RoomID]
	if !ok {
		return nil, nil
	}
	return player, room
}

func (reg *Registry) sendTo(p *Player, msg any) {
	if p == nil || p.Conn == nil {
		return
	}
	payload, err := protocol.Encode(msg)
	if err != nil {
		reg.log.Error("encode failed", "player", p.ID, "error", err)
		return
	}
	if err := p.Conn.Send(payload); err != nil {
		reg.log.Debug("send failed", "player", p.ID, "error", err)
	}
}

func (reg *Registry) broadcast(room *Room, msg any) {
	reg.broadcastExcept(room, "", msg)
}

func (reg *Registry) broadcastExcept(room *Room, skip string, msg any) {
	payload, err := protocol.Encode(msg)
	if err != nil {
		reg.log.Error("broadcast encode failed", "room", room.ID, "error", err)
		return
	}
	for id, p := range room.Players {
		if id == skip || p.Conn == nil {
			continue
		}
		if err := p.Conn.Send(payload); err != nil {
			reg.log.Debug("broadcast send failed", "player", id, "error", err)
		}
	}
}
