package dispatch

import (
	"math"
	"strings"
	"time"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
	"babelbot/internal/queue"

	"github.com/Jeffail/gabs"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// GuildConfigs yields a guild's effective config tree.
type GuildConfigs interface {
	Get(guildID string) (*gabs.Container, error)
}

// Locales resolves a channel's effective locale.
type Locales interface {
	Get(guildID, channelID string) string
}

// DisableList answers the per-guild/per-channel disable gate.
type DisableList interface {
	IsCommandDisabled(guildID, channelID, name string) (bool, error)
}

// Recorder persists execution counters after a successful run.
type Recorder interface {
	RecordExecution(guildID, channelID, userID, command string)
}

// PermissionChecker reports whether a member holds the guild-manage
// permission; the bot backs this with gateway state.
type PermissionChecker interface {
	CanManageGuild(guildID, userID string) bool
}

// Params collects the processor's collaborators.
type Params struct {
	Log      *zap.Logger
	Registry *command.Registry
	Guilds   GuildConfigs
	Locales  Locales
	Catalog  *i18n.Catalog
	Sender   command.Sender
	Stats    Recorder
	Disabled DisableList
	Perms    PermissionChecker
	Seasons  *command.SeasonWatcher
	OwnerID  string
	Dev      bool

	// FloodLimit invocations per FloodWindow per user; zero values take
	// the defaults.
	FloodLimit  int
	FloodWindow time.Duration
}

// Processor runs the per-message pipeline: prefix detection, command
// lookup, permission/scope/cooldown gates, execution, stats recording.
// Failures inside a command never crash the process; they surface as a
// localized best-effort apology.
type Processor struct {
	log       *zap.Logger
	registry  *command.Registry
	guilds    GuildConfigs
	locales   Locales
	catalog   *i18n.Catalog
	sender    command.Sender
	stats     Recorder
	disabled  DisableList
	perms     PermissionChecker
	seasons   *command.SeasonWatcher
	cooldowns *cooldownTable
	flood     *floodGuard
	queues    *queue.Group
	ownerID   string
	botUserID string
	dev       bool
}

func New(p Params) *Processor {
	return &Processor{
		log:       p.Log,
		registry:  p.Registry,
		guilds:    p.Guilds,
		locales:   p.Locales,
		catalog:   p.Catalog,
		sender:    p.Sender,
		stats:     p.Stats,
		disabled:  p.Disabled,
		perms:     p.Perms,
		seasons:   p.Seasons,
		cooldowns: newCooldownTable(),
		flood:     newFloodGuard(p.FloodLimit, p.FloodWindow),
		queues:    queue.NewGroup(),
		ownerID:   p.OwnerID,
		dev:       p.Dev,
	}
}

// SetBotUser tells the processor its own user id, enabling @mention as a
// prefix alternative. Known only after the gateway session is ready.
func (p *Processor) SetBotUser(id string) {
	p.botUserID = id
}

const defaultPrefix = "!"

// Handle runs one inbound message through the pipeline.
func (p *Processor) Handle(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("command panicked",
				zap.Any("panic", r),
				zap.String("content", msg.Content),
				zap.String("guild", msg.GuildID),
				zap.String("channel", msg.ChannelID),
				zap.String("user", msg.Author.ID))
			p.apologize(msg, nil)
		}
	}()

	var cfg *gabs.Container
	if msg.GuildID != "" {
		tree, err := p.guilds.Get(msg.GuildID)
		if err != nil {
			p.log.Warn("guild config read failed",
				zap.String("guild", msg.GuildID), zap.Error(err))
		} else {
			cfg = tree
		}
	}

	// PrefixCheck: configured prefix or a bot mention, else silent stop.
	rest, ok := p.stripPrefix(msg.Content, cfg)
	if !ok {
		return
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}

	// CommandLookup: unresolved tokens terminate silently.
	cmd, ok := p.registry.Lookup(fields[0])
	if !ok {
		return
	}
	name := cmd.Canonical().Name

	// Flood guard: users bursting commands get dropped silently.
	if !p.flood.Allow(msg.Author.ID) {
		return
	}

	// PermissionCheck.
	canManage := msg.GuildID != "" && p.perms.CanManageGuild(msg.GuildID, msg.Author.ID)
	if !cmd.Permission.Satisfied(msg.Author.ID, canManage, p.ownerID) {
		p.reply(msg, p.catalog.Phrase("errors.permission",
			"You don't have permission to use this command."))
		return
	}

	// ScopeCheck.
	if !cmd.Scope.Allows(msg.GuildID != "") {
		p.reply(msg, p.catalog.Phrase("errors.scope",
			"This command can't be used here."))
		return
	}

	// Disable lists and seasons are data gates; both stop silently.
	if msg.GuildID != "" {
		disabled, err := p.disabled.IsCommandDisabled(msg.GuildID, msg.ChannelID, name)
		if err != nil {
			p.log.Warn("disable list read failed",
				zap.String("guild", msg.GuildID), zap.Error(err))
		}
		if disabled {
			return
		}
	}
	if cmd.Season != nil && p.seasons != nil && p.seasons.State(name) != command.InSeason {
		return
	}

	// CooldownCheck.
	if cmd.Cooldown > 0 && cooldownsEnabled(cfg) {
		key := msg.GuildID + ":" + msg.Author.ID + ":" + name
		if remaining := p.cooldowns.Remaining(key, cmd.Cooldown); remaining > 0 {
			seconds := int(math.Ceil(remaining.Seconds()))
			p.reply(msg, p.catalog.PluralPhrase("errors.cooldown",
				"[1] Hold on, one more second.|[2,] Hold on, {{count}} more seconds.", seconds))
			return
		}
		p.cooldowns.Touch(key)
	}

	// Execute.
	ctx := &command.Context{
		Session:     session,
		Message:     msg,
		Args:        fields[1:],
		Prefix:      p.prefix(cfg),
		Locale:      p.locales.Get(msg.GuildID, msg.ChannelID),
		GuildConfig: cfg,
		GuildQueue:  p.queues.For(msg.GuildID),
		Catalog:     p.catalog,
		Sender:      p.sender,
	}
	if err := cmd.Run(ctx); err != nil {
		p.log.Error("command failed",
			zap.String("command", name),
			zap.String("content", msg.Content),
			zap.String("guild", msg.GuildID),
			zap.String("channel", msg.ChannelID),
			zap.String("user", msg.Author.ID),
			zap.Error(err))
		p.apologize(msg, err)
		return
	}

	// StatsRecord.
	p.stats.RecordExecution(msg.GuildID, msg.ChannelID, msg.Author.ID, name)
}

func (p *Processor) prefix(cfg *gabs.Container) string {
	if cfg != nil {
		if prefix, ok := cfg.Path("main.prefix").Data().(string); ok && prefix != "" {
			return prefix
		}
	}
	return defaultPrefix
}

// stripPrefix removes the guild prefix or a leading bot mention and
// reports whether the message addressed the bot at all.
func (p *Processor) stripPrefix(content string, cfg *gabs.Container) (string, bool) {
	if prefix := p.prefix(cfg); strings.HasPrefix(content, prefix) {
		return content[len(prefix):], true
	}
	if p.botUserID != "" {
		for _, mention := range []string{"<@" + p.botUserID + ">", "<@!" + p.botUserID + ">"} {
			if strings.HasPrefix(content, mention) {
				return strings.TrimLeft(content[len(mention):], " "), true
			}
		}
	}
	return "", false
}

func cooldownsEnabled(cfg *gabs.Container) bool {
	if cfg == nil {
		return true
	}
	if enabled, ok := cfg.Path("cooldowns.enabled").Data().(bool); ok {
		return enabled
	}
	return true
}

func (p *Processor) reply(msg *discordgo.MessageCreate, content i18n.Resolvable) {
	if _, err := p.sender.Send(msg.ChannelID, content); err != nil {
		p.log.Debug("gate reply failed", zap.String("channel", msg.ChannelID), zap.Error(err))
	}
}

// apologize sends the generic failure message, verbose in dev mode.
// Secondary failures (missing send permission) are swallowed.
func (p *Processor) apologize(msg *discordgo.MessageCreate, cause error) {
	content := i18n.Resolvable(p.catalog.Phrase("errors.generic",
		"Something went wrong, sorry about that."))
	if p.dev && cause != nil {
		content = i18n.NewMerge(content, i18n.Literal("`"+cause.Error()+"`"))
	}
	if _, err := p.sender.Send(msg.ChannelID, content); err != nil {
		p.log.Debug("apology failed", zap.String("channel", msg.ChannelID), zap.Error(err))
	}
}
