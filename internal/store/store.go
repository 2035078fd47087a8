package store

import (
	"fmt"
	"time"

	"babelbot/internal/i18n"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"go.uber.org/zap"
)

const (
	colGuildConfigs = "guild_configs"
	colGuildLocales = "guild_locales"
	colDisabled     = "disabled_commands"
	colCounters     = "counters"
	colUsage        = "command_usage"
)

// Store is the document store behind guild configuration, locale
// selection, disable lists, and stats counters. It is the single source of
// truth; the in-memory caches in front of it are write-through.
type Store struct {
	log     *zap.Logger
	session *mgo.Session
	db      *mgo.Database
}

func Dial(log *zap.Logger, url, database string) (*Store, error) {
	session, err := mgo.DialWithTimeout(url, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial mongo: %w", err)
	}
	session.SetMode(mgo.Monotonic, true)
	return &Store{log: log, session: session, db: session.DB(database)}, nil
}

func (s *Store) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

type guildConfigDoc struct {
	GuildID string                 `bson:"_id"`
	Config  map[string]interface{} `bson:"config"`
}

// GetGuildConfig returns the guild's stored config tree, or nil when the
// guild has no document yet.
func (s *Store) GetGuildConfig(guildID string) (map[string]interface{}, error) {
	var doc guildConfigDoc
	err := s.db.C(colGuildConfigs).FindId(guildID).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guild config: %w", err)
	}
	return doc.Config, nil
}

func (s *Store) SetGuildConfig(guildID string, config map[string]interface{}) error {
	_, err := s.db.C(colGuildConfigs).UpsertId(guildID, guildConfigDoc{GuildID: guildID, Config: config})
	if err != nil {
		return fmt.Errorf("set guild config: %w", err)
	}
	return nil
}

func (s *Store) DeleteGuildConfig(guildID string) error {
	err := s.db.C(colGuildConfigs).RemoveId(guildID)
	if err != nil && err != mgo.ErrNotFound {
		return fmt.Errorf("delete guild config: %w", err)
	}
	return nil
}

type localeDoc struct {
	GuildID  string            `bson:"_id"`
	Global   string            `bson:"global"`
	Channels map[string]string `bson:"channels"`
}

// GetLocales returns the guild's locale config; a guild with no document
// yields the zero config.
func (s *Store) GetLocales(guildID string) (i18n.LocaleConfig, error) {
	var doc localeDoc
	err := s.db.C(colGuildLocales).FindId(guildID).One(&doc)
	if err == mgo.ErrNotFound {
		return i18n.LocaleConfig{}, nil
	}
	if err != nil {
		return i18n.LocaleConfig{}, fmt.Errorf("get guild locales: %w", err)
	}
	return i18n.LocaleConfig{Global: doc.Global, Channels: doc.Channels}, nil
}

func (s *Store) SetLocales(guildID string, cfg i18n.LocaleConfig) error {
	_, err := s.db.C(colGuildLocales).UpsertId(guildID, localeDoc{
		GuildID:  guildID,
		Global:   cfg.Global,
		Channels: cfg.Channels,
	})
	if err != nil {
		return fmt.Errorf("set guild locales: %w", err)
	}
	return nil
}

type disabledDoc struct {
	GuildID  string              `bson:"_id"`
	Commands []string            `bson:"commands"`
	Channels map[string][]string `bson:"channels"`
}

// IsCommandDisabled checks the guild-wide and per-channel disable lists.
// Disabling is data, not code; editing these documents needs no redeploy.
func (s *Store) IsCommandDisabled(guildID, channelID, name string) (bool, error) {
	var doc disabledDoc
	err := s.db.C(colDisabled).FindId(guildID).One(&doc)
	if err == mgo.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get disabled commands: %w", err)
	}
	for _, disabled := range doc.Commands {
		if disabled == name {
			return true, nil
		}
	}
	for _, disabled := range doc.Channels[channelID] {
		if disabled == name {
			return true, nil
		}
	}
	return false, nil
}

// SetCommandDisabled toggles a command on the guild-wide list (empty
// channelID) or a channel list.
func (s *Store) SetCommandDisabled(guildID, channelID, name string, disabled bool) error {
	field := "commands"
	if channelID != "" {
		field = "channels." + channelID
	}
	op := "$pull"
	if disabled {
		op = "$addToSet"
	}
	_, err := s.db.C(colDisabled).UpsertId(guildID, bson.M{op: bson.M{field: name}})
	if err != nil {
		return fmt.Errorf("set command disabled: %w", err)
	}
	return nil
}
