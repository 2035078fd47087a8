package store

import (
	"fmt"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
)

type counterDoc struct {
	ID    string `bson:"_id"`
	Value int    `bson:"value"`
}

// IncCounter bumps a named counter. Global counters use the bare name;
// per-guild counters use "guildID:name" keys built by the stats service.
func (s *Store) IncCounter(key string, delta int) error {
	_, err := s.db.C(colCounters).UpsertId(key, bson.M{"$inc": bson.M{"value": delta}})
	if err != nil {
		return fmt.Errorf("inc counter: %w", err)
	}
	return nil
}

func (s *Store) CounterValue(key string) (int, error) {
	var doc counterDoc
	err := s.db.C(colCounters).FindId(key).One(&doc)
	if err == mgo.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counter value: %w", err)
	}
	return doc.Value, nil
}

type usageDoc struct {
	GuildID   string    `bson:"guild_id"`
	ChannelID string    `bson:"channel_id"`
	UserID    string    `bson:"user_id"`
	Command   string    `bson:"command"`
	Bucket    time.Time `bson:"bucket"`
	Count     int       `bson:"count"`
}

// IncUsage bumps the hour-bucketed usage counter for one invocation.
func (s *Store) IncUsage(guildID, channelID, userID, command string, bucket time.Time) error {
	_, err := s.db.C(colUsage).Upsert(bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
		"user_id":    userID,
		"command":    command,
		"bucket":     bucket,
	}, bson.M{"$inc": bson.M{"count": 1}})
	if err != nil {
		return fmt.Errorf("inc usage: %w", err)
	}
	return nil
}

// UsageByCommand aggregates a guild's usage since a time, per command.
func (s *Store) UsageByCommand(guildID string, since time.Time) (map[string]int, error) {
	pipe := s.db.C(colUsage).Pipe([]bson.M{
		{"$match": bson.M{"guild_id": guildID, "bucket": bson.M{"$gte": since}}},
		{"$group": bson.M{"_id": "$command", "total": bson.M{"$sum": "$count"}}},
	})
	var rows []struct {
		Command string `bson:"_id"`
		Total   int    `bson:"total"`
	}
	if err := pipe.All(&rows); err != nil {
		return nil, fmt.Errorf("usage aggregate: %w", err)
	}
	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.Command] = row.Total
	}
	return totals, nil
}
