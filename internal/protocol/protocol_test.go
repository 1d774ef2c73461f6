package protocol

import (
	"errors"
	"testing"
)

func TestDecodeCanonicalJoin(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"join_room","playerId":"p1","roomId":"main","data":{"forceSpectator":true}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cmd.Type != TypeJoinRoom || cmd.PlayerID != "p1" || cmd.RoomID != "main" {
		t.Fatalf("unexpected command %+v", cmd)
	}
	if cmd.Join == nil || !cmd.Join.ForceSpectator {
		t.Fatal("forceSpectator not decoded")
	}
}

func TestDecodeCompactAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  MessageType
		data  string
	}{
		{"jr", TypeJoinRoom, ""},
		{"up", TypeUpdatePaddle, `,"data":{"y":120,"seq":3}`},
		{"ugs", TypeUpdateGameState, `,"data":{}`},
		{"ugsd", TypeUpdateGameStateDelta, `,"data":{}`},
		{"rr", TypeResetRoom, ""},
		{"pi", TypePing, ""},
	}
	for _, tt := range tests {
		payload := `{"type":"` + tt.alias + `","playerId":"p1","roomId":"r1"` + tt.data + `}`
		cmd, err := Decode([]byte(payload))
		if err != nil {
			t.Errorf("alias %q: decode failed: %v", tt.alias, err)
			continue
		}
		if cmd.Type != tt.want {
			t.Errorf("alias %q decoded as %q, want %q", tt.alias, cmd.Type, tt.want)
		}
	}
}

func TestDecodePaddleAxes(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"update_paddle","playerId":"p1","roomId":"r1","data":{"y":120,"velocity":4,"targetY":200,"seq":7}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	pos, target, ok := cmd.Paddle.Pos()
	if !ok || pos != 120 || target != 200 {
		t.Fatalf("vertical pos = (%v,%v,%v)", pos, target, ok)
	}
	if cmd.Paddle.Seq != 7 {
		t.Fatalf("seq = %d, want 7", cmd.Paddle.Seq)
	}

	cmd, err = Decode([]byte(`{"type":"update_paddle","playerId":"p1","roomId":"r1","data":{"x":300,"seq":8}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	pos, target, ok = cmd.Paddle.Pos()
	if !ok || pos != 300 || target != 300 {
		t.Fatalf("horizontal pos = (%v,%v,%v)", pos, target, ok)
	}

	if _, _, ok := (PaddleData{}).Pos(); ok {
		t.Fatal("empty paddle data should report no position")
	}
}

func TestDecodeDeltaKeepsScoreForInspection(t *testing.T) {
	cmd, err := Decode([]byte(`{"type":"update_game_state_delta","playerId":"gm","roomId":"r1","data":{"isPaused":true,"score":{"left":999}}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cmd.Delta == nil || cmd.Delta.IsPaused == nil || !*cmd.Delta.IsPaused {
		t.Fatal("delta isPaused not decoded")
	}
	if !cmd.Delta.HasScore() {
		t.Fatal("submitted score should be visible so the registry can log and discard it")
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
	if _, err := Decode([]byte(`{"type":"update_paddle","data":"nope"}`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"launch_missiles"}`)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}
