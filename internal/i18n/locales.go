package i18n

import (
	"errors"
	"sync"
)

// ErrUnknownLocale rejects writes of locale codes the catalog has no file for.
var ErrUnknownLocale = errors.New("unknown locale code")

// DefaultKeyword resets a channel override back to the guild's global locale.
const DefaultKeyword = "default"

// LocaleConfig is the per-guild locale selection: one global code plus
// explicit per-channel overrides.
type LocaleConfig struct {
	Global   string            `bson:"global" json:"global"`
	Channels map[string]string `bson:"channels" json:"channels"`
}

// LocaleStore persists per-guild locale configs. A guild with no stored
// config yields the zero LocaleConfig and no error.
type LocaleStore interface {
	GetLocales(guildID string) (LocaleConfig, error)
	SetLocales(guildID string, cfg LocaleConfig) error
}

// LocaleManager resolves the effective locale of a channel and validates
// locale writes against the catalog. The in-memory cache is write-through;
// a miss falls back to a store read.
type LocaleManager struct {
	catalog *Catalog
	store   LocaleStore

	mu    sync.Mutex
	cache map[string]LocaleConfig
}

func NewLocaleManager(catalog *Catalog, store LocaleStore) *LocaleManager {
	return &LocaleManager{
		catalog: catalog,
		store:   store,
		cache:   make(map[string]LocaleConfig),
	}
}

// Get returns the effective locale for a channel: the channel override if
// set, else the guild's global locale, else the catalog default.
func (m *LocaleManager) Get(guildID, channelID string) string {
	cfg, err := m.config(guildID)
	if err != nil {
		return m.catalog.DefaultLocale()
	}
	if locale, ok := cfg.Channels[channelID]; ok && locale != "" {
		return locale
	}
	if cfg.Global != "" {
		return cfg.Global
	}
	return m.catalog.DefaultLocale()
}

// SetGlobal sets the guild-wide locale.
func (m *LocaleManager) SetGlobal(guildID, locale string) error {
	if !m.catalog.Known(locale) {
		return ErrUnknownLocale
	}
	cfg, err := m.config(guildID)
	if err != nil {
		return err
	}
	cfg.Global = locale
	return m.put(guildID, cfg)
}

// SetChannel sets a per-channel override. The keyword "default" clears the
// override so the channel follows the guild's global locale again.
func (m *LocaleManager) SetChannel(guildID, channelID, locale string) error {
	cfg, err := m.config(guildID)
	if err != nil {
		return err
	}
	if locale == DefaultKeyword {
		delete(cfg.Channels, channelID)
		return m.put(guildID, cfg)
	}
	if !m.catalog.Known(locale) {
		return ErrUnknownLocale
	}
	if cfg.Channels == nil {
		cfg.Channels = make(map[string]string)
	}
	cfg.Channels[channelID] = locale
	return m.put(guildID, cfg)
}

func (m *LocaleManager) config(guildID string) (LocaleConfig, error) {
	m.mu.Lock()
	cached, ok := m.cache[guildID]
	m.mu.Unlock()
	if ok {
		return cloneConfig(cached), nil
	}

	cfg, err := m.store.GetLocales(guildID)
	if err != nil {
		return LocaleConfig{}, err
	}
	m.mu.Lock()
	m.cache[guildID] = cloneConfig(cfg)
	m.mu.Unlock()
	return cfg, nil
}

func (m *LocaleManager) put(guildID string, cfg LocaleConfig) error {
	if err := m.store.SetLocales(guildID, cfg); err != nil {
		return err
	}
	m.mu.Lock()
	m.cache[guildID] = cloneConfig(cfg)
	m.mu.Unlock()
	return nil
}

func cloneConfig(cfg LocaleConfig) LocaleConfig {
	out := LocaleConfig{Global: cfg.Global}
	if cfg.Channels != nil {
		out.Channels = make(map[string]string, len(cfg.Channels))
		for id, locale := range cfg.Channels {
			out.Channels[id] = locale
		}
	}
	return out
}
