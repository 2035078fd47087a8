package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestDispatchRoutesToNamedHandler(t *testing.T) {
	b := New(zap.NewNop(), nil)
	b.Answer("getBotStats", func(payload json.RawMessage) (interface{}, error) {
		return map[string]int{"executed": 42}, nil
	})

	resp := b.dispatch(request{ID: "1", Name: "getBotStats"})
	if !resp.OK {
		t.Fatalf("expected ok response, got %+v", resp)
	}
	data, ok := resp.Data.(map[string]int)
	if !ok || data["executed"] != 42 {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestDispatchUnknownName(t *testing.T) {
	b := New(zap.NewNop(), nil)
	resp := b.dispatch(request{ID: "1", Name: "nosuch"})
	if resp.OK || resp.Error == "" {
		t.Fatalf("expected error response, got %+v", resp)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	b := New(zap.NewNop(), nil)
	b.Answer("settingsUpdate", func(payload json.RawMessage) (interface{}, error) {
		return nil, errors.New("bad settings")
	})

	resp := b.dispatch(request{ID: "1", Name: "settingsUpdate"})
	if resp.OK || resp.Error != "bad settings" {
		t.Fatalf("expected handler error surfaced, got %+v", resp)
	}
}

func TestDispatchPassesPayload(t *testing.T) {
	b := New(zap.NewNop(), nil)
	var got string
	b.Answer("getGuildSettings", func(payload json.RawMessage) (interface{}, error) {
		var in struct {
			GuildID string `json:"guildId"`
		}
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, err
		}
		got = in.GuildID
		return nil, nil
	})

	b.dispatch(request{ID: "1", Name: "getGuildSettings", Payload: json.RawMessage(`{"guildId":"g1"}`)})
	if got != "g1" {
		t.Fatalf("payload not delivered, got %q", got)
	}
}
