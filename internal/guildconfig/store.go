package guildconfig

import (
	"errors"
	"sync"

	"github.com/Jeffail/gabs"
)

// ErrNotObject rejects Set input that is not a key/value tree.
var ErrNotObject = errors.New("guild config update must be an object")

// Backend persists raw per-guild config documents. A guild with no stored
// document yields nil and no error.
type Backend interface {
	GetGuildConfig(guildID string) (map[string]interface{}, error)
	SetGuildConfig(guildID string, doc map[string]interface{}) error
	DeleteGuildConfig(guildID string) error
}

// Store composes parameter defaults with stored per-guild overrides.
// Reads shallow-merge defaults with the stored document per top-level key;
// writes deep-merge a partial tree into the stored document. The in-memory
// cache is write-through, a miss falls back to a backend read.
type Store struct {
	backend  Backend
	params   map[string]Parameter
	defaults map[string]interface{}

	mu    sync.Mutex
	cache map[string]map[string]interface{}
}

func New(backend Backend, params []Parameter) *Store {
	tree := gabs.New()
	index := make(map[string]Parameter, len(params))
	for _, p := range params {
		index[p.Path] = p
		if _, err := tree.SetP(p.Default, p.Path); err != nil {
			// A parameter path that cannot be set is a programming error.
			panic("guildconfig: invalid parameter path " + p.Path)
		}
	}
	defaults, _ := tree.Data().(map[string]interface{})
	if defaults == nil {
		defaults = map[string]interface{}{}
	}
	return &Store{
		backend:  backend,
		params:   index,
		defaults: defaults,
		cache:    make(map[string]map[string]interface{}),
	}
}

// Parameter returns the definition registered for a dotted path.
func (s *Store) Parameter(path string) (Parameter, bool) {
	p, ok := s.params[path]
	return p, ok
}

// Parameters returns all registered definitions.
func (s *Store) Parameters() []Parameter {
	out := make([]Parameter, 0, len(s.params))
	for _, p := range s.params {
		out = append(out, p)
	}
	return out
}

// Get returns the guild's effective config tree: declared defaults
// shallow-merged with stored overrides per top-level key.
func (s *Store) Get(guildID string) (*gabs.Container, error) {
	stored, err := s.document(guildID)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]interface{}, len(s.defaults))
	for key, value := range s.defaults {
		merged[key] = value
	}
	for key, value := range stored {
		merged[key] = value
	}
	return gabs.Consume(deepCopy(merged).(map[string]interface{}))
}

// GetPath walks the merged tree with a dotted path. A nil value means the
// path exists but is unset; ok reports whether the path exists at all.
func (s *Store) GetPath(guildID, path string) (interface{}, bool, error) {
	tree, err := s.Get(guildID)
	if err != nil {
		return nil, false, err
	}
	if !tree.ExistsP(path) {
		return nil, false, nil
	}
	return tree.Path(path).Data(), true, nil
}

// Set deep-merges a partial tree into the stored document and persists it.
// Empty strings coerce to nil. Unknown parameter paths are accepted into
// the document as-is; schema enforcement is the caller's choice via
// Parameter.Check. Non-object input is rejected.
func (s *Store) Set(guildID string, partial interface{}) error {
	tree, ok := partial.(map[string]interface{})
	if !ok {
		return ErrNotObject
	}

	stored, err := s.document(guildID)
	if err != nil {
		return err
	}
	if stored == nil {
		stored = make(map[string]interface{})
	}
	deepMerge(stored, tree)

	if err := s.backend.SetGuildConfig(guildID, stored); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[guildID] = stored
	s.mu.Unlock()
	return nil
}

// Reset drops the guild's stored document entirely; reads fall back to
// declared defaults.
func (s *Store) Reset(guildID string) error {
	if err := s.backend.DeleteGuildConfig(guildID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, guildID)
	s.mu.Unlock()
	return nil
}

func (s *Store) document(guildID string) (map[string]interface{}, error) {
	s.mu.Lock()
	cached, ok := s.cache[guildID]
	s.mu.Unlock()
	if ok {
		return deepCopy(cached).(map[string]interface{}), nil
	}

	doc, err := s.backend.GetGuildConfig(guildID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	s.mu.Lock()
	s.cache[guildID] = doc
	s.mu.Unlock()
	return deepCopy(doc).(map[string]interface{}), nil
}

// deepMerge merges src into dst in place. Nested objects merge key-wise,
// everything else overwrites; empty strings store as nil.
func deepMerge(dst, src map[string]interface{}) {
	for key, value := range src {
		if value == "" {
			dst[key] = nil
			continue
		}
		srcTree, srcIsTree := value.(map[string]interface{})
		dstTree, dstIsTree := dst[key].(map[string]interface{})
		if srcIsTree && dstIsTree {
			deepMerge(dstTree, srcTree)
			continue
		}
		if srcIsTree {
			copied := make(map[string]interface{}, len(srcTree))
			deepMerge(copied, srcTree)
			dst[key] = copied
			continue
		}
		dst[key] = value
	}
}

func deepCopy(value interface{}) interface{} {
	tree, ok := value.(map[string]interface{})
	if !ok {
		return value
	}
	copied := make(map[string]interface{}, len(tree))
	for key, child := range tree {
		copied[key] = deepCopy(child)
	}
	return copied
}
