package stats

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const globalCounter = "commands_executed"

// Backend persists counters and usage buckets.
type Backend interface {
	IncCounter(key string, delta int) error
	CounterValue(key string) (int, error)
	IncUsage(guildID, channelID, userID, command string, bucket time.Time) error
	UsageByCommand(guildID string, since time.Time) (map[string]int, error)
}

// Service records command executions: a global counter, a per-guild
// counter, and hour-bucketed per-user/per-channel usage. The last-value
// cache is best effort; reads that miss fall back to the backend.
type Service struct {
	log     *zap.Logger
	backend Backend

	mu   sync.Mutex
	last map[string]int
}

func New(log *zap.Logger, backend Backend) *Service {
	return &Service{log: log, backend: backend, last: make(map[string]int)}
}

// RecordExecution bumps all counters for one successful command run.
// Failures are logged and swallowed; stats never fail the pipeline.
func (s *Service) RecordExecution(guildID, channelID, userID, command string) {
	now := time.Now().UTC().Truncate(time.Hour)

	s.bump(globalCounter)
	if guildID != "" {
		s.bump(guildID + ":" + globalCounter)
		if err := s.backend.IncUsage(guildID, channelID, userID, command, now); err != nil {
			s.log.Warn("usage record failed", zap.String("guild", guildID), zap.Error(err))
		}
	}
}

func (s *Service) bump(key string) {
	if err := s.backend.IncCounter(key, 1); err != nil {
		s.log.Warn("counter record failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.mu.Lock()
	s.last[key]++
	s.mu.Unlock()
}

// Executed returns the global executed-command count.
func (s *Service) Executed() (int, error) {
	return s.counter(globalCounter)
}

// GuildExecuted returns one guild's executed-command count.
func (s *Service) GuildExecuted(guildID string) (int, error) {
	return s.counter(guildID + ":" + globalCounter)
}

func (s *Service) counter(key string) (int, error) {
	value, err := s.backend.CounterValue(key)
	if err != nil {
		// Cache is best effort; serve the last known value when the
		// store read fails.
		s.mu.Lock()
		cached, ok := s.last[key]
		s.mu.Unlock()
		if ok {
			return cached, nil
		}
		return 0, err
	}
	s.mu.Lock()
	s.last[key] = value
	s.mu.Unlock()
	return value, nil
}

// Report aggregates a guild's per-command usage over a trailing window.
type Report struct {
	Total     int
	ByCommand map[string]int
}

func (s *Service) Report(guildID string, since time.Time) (Report, error) {
	totals, err := s.backend.UsageByCommand(guildID, since)
	if err != nil {
		return Report{}, err
	}
	report := Report{ByCommand: totals}
	for _, count := range totals {
		report.Total += count
	}
	return report, nil
}
