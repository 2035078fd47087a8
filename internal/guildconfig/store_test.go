package guildconfig

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeBackend struct {
	docs map[string]map[string]interface{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{docs: make(map[string]map[string]interface{})}
}

func (b *fakeBackend) GetGuildConfig(guildID string) (map[string]interface{}, error) {
	return b.docs[guildID], nil
}

func (b *fakeBackend) SetGuildConfig(guildID string, doc map[string]interface{}) error {
	b.docs[guildID] = doc
	return nil
}

func (b *fakeBackend) DeleteGuildConfig(guildID string) error {
	delete(b.docs, guildID)
	return nil
}

func testParams() []Parameter {
	return []Parameter{
		{Path: "main.prefix", Default: "!", Kinds: []Kind{KindString}},
		{Path: "main.color", Default: "blue", Kinds: []Kind{KindString}},
		{Path: "log.channel", Default: nil, Kinds: []Kind{KindChannel}, AllowEmpty: true},
	}
}

func TestGetUnsetGuildReturnsDefaults(t *testing.T) {
	s := New(newFakeBackend(), testParams())

	tree, err := s.Get("g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := map[string]interface{}{
		"main": map[string]interface{}{"prefix": "!", "color": "blue"},
		"log":  map[string]interface{}{"channel": nil},
	}
	if diff := cmp.Diff(want, tree.Data()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSetDeepMergesSiblings(t *testing.T) {
	s := New(newFakeBackend(), testParams())

	if err := s.Set("g1", map[string]interface{}{
		"main": map[string]interface{}{"prefix": "?"},
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("g1", map[string]interface{}{
		"main": map[string]interface{}{"color": "red"},
	}); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, ok, err := s.GetPath("g1", "main.prefix")
	if err != nil || !ok {
		t.Fatalf("get path: ok=%v err=%v", ok, err)
	}
	if value != "?" {
		t.Fatalf("sibling key overwritten, prefix = %v", value)
	}
	if value, _, _ := s.GetPath("g1", "main.color"); value != "red" {
		t.Fatalf("expected red, got %v", value)
	}
}

func TestSetCoercesEmptyStringToNil(t *testing.T) {
	s := New(newFakeBackend(), testParams())

	if err := s.Set("g1", map[string]interface{}{
		"log": map[string]interface{}{"channel": ""},
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := s.GetPath("g1", "log.channel")
	if err != nil || !ok {
		t.Fatalf("get path: ok=%v err=%v", ok, err)
	}
	if value != nil {
		t.Fatalf("expected nil, got %v", value)
	}
}

func TestSetRejectsNonObject(t *testing.T) {
	s := New(newFakeBackend(), testParams())
	if err := s.Set("g1", "not a tree"); err != ErrNotObject {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestSetAcceptsUnknownPaths(t *testing.T) {
	s := New(newFakeBackend(), testParams())
	if err := s.Set("g1", map[string]interface{}{
		"custom": map[string]interface{}{"thing": true},
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, _, _ := s.GetPath("g1", "custom.thing"); value != true {
		t.Fatalf("expected unknown path stored, got %v", value)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, testParams())

	if err := s.Set("g1", map[string]interface{}{
		"main": map[string]interface{}{"prefix": "?"},
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Reset("g1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if value, _, _ := s.GetPath("g1", "main.prefix"); value != "!" {
		t.Fatalf("expected default prefix, got %v", value)
	}
}

func TestGetFallsBackToBackendOnCacheMiss(t *testing.T) {
	backend := newFakeBackend()
	backend.docs["g1"] = map[string]interface{}{
		"main": map[string]interface{}{"prefix": "$"},
	}
	s := New(backend, testParams())

	if value, _, _ := s.GetPath("g1", "main.prefix"); value != "$" {
		t.Fatalf("expected stored prefix, got %v", value)
	}
}
