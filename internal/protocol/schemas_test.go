package protocol

import (
	"encoding/json"
	"testing"

	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

func TestDecodeActAcceptsBuiltActions(t *testing.T) {
	msg := ActMsg{
		Type:            TypeAct,
		ProtocolVersion: Version,
		Round:           3,
		Actions: []Action{
			Move(4, geom.Northeast),
			Attack(4, 7),
			Blueprint(2, unit.Rocket, geom.South),
			QueueRobot(10, unit.Worker),
			LaunchRocket(12, geom.NewMapLocation(geom.Mars, 3, 3)),
			QueueResearch(unit.Knight),
			WriteTeamArray(0, 0),
			ResetResearch(),
		},
	}
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DecodeAct(b)
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, b)
	}
	if len(got.Actions) != len(msg.Actions) {
		t.Fatalf("got %d actions", len(got.Actions))
	}
	if d := got.Actions[0].Direction; d == nil || *d != geom.Northeast {
		t.Fatalf("direction lost: %v", d)
	}
	if ut := got.Actions[3].UnitType; ut == nil || *ut != unit.Worker {
		t.Fatalf("worker unit type lost: %v", ut)
	}
}

func TestDecodeActRejects(t *testing.T) {
	bad := []string{
		`{"type":"ACT","protocol_version":"1.0","round":1,"actions":[{"type":"MOVE","unit":3}]}`,
		`{"type":"ACT","protocol_version":"1.0","round":1,"actions":[{"type":"FLY","unit":3}]}`,
		`{"type":"ACT","protocol_version":"1.0","round":0,"actions":[]}`,
		`{"type":"ACT","protocol_version":"1.0","round":1,"actions":[{"type":"BLINK","unit":3,"location":{"planet":"Venus","x":1,"y":1}}]}`,
		`{"type":"OBS"}`,
		`nope`,
	}
	for _, b := range bad {
		if _, err := DecodeAct([]byte(b)); err == nil {
			t.Fatalf("expected rejection: %s", b)
		}
	}
}

func TestDecodeHello(t *testing.T) {
	h, err := DecodeHello([]byte(`{"type":"HELLO","protocol_version":"1.0","team":"Blue","planet":"Mars","capabilities":{"lz4":true}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Team != geom.Blue || h.Planet != geom.Mars || !h.Capabilities.LZ4 {
		t.Fatalf("got %+v", h)
	}
	if _, err := DecodeHello([]byte(`{"type":"HELLO","protocol_version":"1.0","team":"Green","planet":"Mars"}`)); err == nil {
		t.Fatalf("expected bad team rejected")
	}
	base, err := DecodeBase([]byte(`{"type":"ACT","protocol_version":"1.0"}`))
	if err != nil || base.Type != TypeAct {
		t.Fatalf("DecodeBase: %+v %v", base, err)
	}
}
