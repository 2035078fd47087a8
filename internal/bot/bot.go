package bot

import (
	"context"

	"babelbot/internal/command"
	"babelbot/internal/config"
	"babelbot/internal/dispatch"
	"babelbot/internal/guildconfig"
	"babelbot/internal/i18n"
	"babelbot/internal/stats"
	"babelbot/internal/store"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot owns the gateway session and wires inbound messages into the
// dispatch pipeline.
type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	session   *discordgo.Session
	processor *dispatch.Processor
	sender    *LocalizedSender
	seasons   *command.SeasonWatcher
}

func New(cfg config.Config, logger *zap.Logger, registry *command.Registry, catalog *i18n.Catalog, locales *i18n.LocaleManager, guilds *guildconfig.Store, statsSvc *stats.Service, st *store.Store, seasons *command.SeasonWatcher) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:     cfg,
		logger:  logger,
		session: session,
		sender:  NewLocalizedSender(session, locales),
		seasons: seasons,
	}

	b.processor = dispatch.New(dispatch.Params{
		Log:      logger,
		Registry: registry,
		Guilds:   guilds,
		Locales:  locales,
		Catalog:  catalog,
		Sender:   b.sender,
		Stats:    statsSvc,
		Disabled: st,
		Perms:    b,
		Seasons:  seasons,
		OwnerID:  cfg.OwnerID,
		Dev:      cfg.Dev,
	})

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	return b.session.Open()
}

func (b *Bot) Close(ctx context.Context) {
	b.seasons.Stop()
	if err := b.session.Close(); err != nil {
		b.logger.Warn("gateway close failed", zap.Error(err))
	}
}

// Sender exposes the locale-aware sender for surfaces outside the
// dispatch pipeline (bridge answers, scheduled announcements).
func (b *Bot) Sender() command.Sender { return b.sender }

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.processor.SetBotUser(event.User.ID)
	b.logger.Info("gateway ready",
		zap.String("user", event.User.Username),
		zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	b.processor.Handle(session, msg)
}

// CanManageGuild reports whether the member holds manage-server (or
// administrator) permission, or owns the guild. Backed by gateway state
// with a REST fallback for uncached members.
func (b *Bot) CanManageGuild(guildID, userID string) bool {
	guild, err := b.session.State.Guild(guildID)
	if err != nil {
		return false
	}
	if guild.OwnerID == userID {
		return true
	}

	member, err := b.session.State.Member(guildID, userID)
	if err != nil {
		member, err = b.session.GuildMember(guildID, userID)
		if err != nil {
			return false
		}
	}
	for _, roleID := range member.Roles {
		role, err := b.session.State.Role(guildID, roleID)
		if err != nil {
			continue
		}
		if role.Permissions&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0 {
			return true
		}
	}
	return false
}
