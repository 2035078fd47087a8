package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babelbot/internal/bot"
	"babelbot/internal/bridge"
	"babelbot/internal/command"
	"babelbot/internal/commands"
	"babelbot/internal/config"
	"babelbot/internal/guildconfig"
	"babelbot/internal/i18n"
	"babelbot/internal/stats"
	"babelbot/internal/store"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Dial(logger, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("mongo dial failed", zap.Error(err))
	}
	defer st.Close()

	catalog := i18n.NewCatalog(logger, cfg.LocaleDir, cfg.DefaultLocale, cfg.FallbackLocale)
	if err := catalog.Load(); err != nil {
		logger.Fatal("locale load failed", zap.Error(err))
	}
	if cfg.LocaleWatch {
		if err := catalog.Watch(); err != nil {
			logger.Warn("locale watch unavailable", zap.Error(err))
		}
		defer catalog.Close()
	}

	locales := i18n.NewLocaleManager(catalog, st)
	guilds := guildconfig.New(st, guildconfig.BotParameters())
	statsSvc := stats.New(logger, st)
	seasons := command.NewSeasonWatcher()

	registry := command.NewRegistry()
	if err := commands.RegisterAll(registry, commands.Deps{
		Catalog:  catalog,
		Guilds:   guilds,
		Locales:  locales,
		Stats:    statsSvc,
		Seasons:  seasons,
		Disabled: st,
	}); err != nil {
		logger.Fatal("command registration failed", zap.Error(err))
	}

	botSvc, err := bot.New(cfg, logger, registry, catalog, locales, guilds, statsSvc, st, seasons)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}
	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	ipc := bridge.New(logger, redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	registerBridgeHandlers(ipc, registry, guilds, statsSvc)
	go func() {
		if err := ipc.Run(bridgeCtx); err != nil && bridgeCtx.Err() == nil {
			logger.Error("bridge stopped", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	stopBridge()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	botSvc.Close(ctx)
}

// registerBridgeHandlers exposes the bot's read and write surfaces to the
// dashboard over the redis request list.
func registerBridgeHandlers(ipc *bridge.Bridge, registry *command.Registry, guilds *guildconfig.Store, statsSvc *stats.Service) {
	ipc.Answer("getBotStats", func(json.RawMessage) (interface{}, error) {
		total, err := statsSvc.Executed()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"commandsExecuted": total}, nil
	})

	ipc.Answer("getCommands", func(json.RawMessage) (interface{}, error) {
		type entry struct {
			Name       string   `json:"name"`
			Aliases    []string `json:"aliases,omitempty"`
			Permission string   `json:"permission"`
			Category   string   `json:"category"`
			Help       string   `json:"help"`
		}
		out := []entry{}
		for _, cmd := range registry.All() {
			out = append(out, entry{
				Name:       cmd.Name,
				Aliases:    cmd.Aliases,
				Permission: cmd.Permission.String(),
				Category:   cmd.Category,
				Help:       cmd.Help,
			})
		}
		return out, nil
	})

	ipc.Answer("getGuildSettings", func(payload json.RawMessage) (interface{}, error) {
		var req struct {
			GuildID string `json:"guildId"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		tree, err := guilds.Get(req.GuildID)
		if err != nil {
			return nil, err
		}
		return tree.Data(), nil
	})

	ipc.Answer("settingsUpdate", func(payload json.RawMessage) (interface{}, error) {
		var req struct {
			GuildID string                 `json:"guildId"`
			Config  map[string]interface{} `json:"config"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		if err := guilds.Set(req.GuildID, req.Config); err != nil {
			return nil, err
		}
		tree, err := guilds.Get(req.GuildID)
		if err != nil {
			return nil, err
		}
		return tree.Data(), nil
	})
}
