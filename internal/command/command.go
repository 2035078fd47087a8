package command

import (
	"time"

	"babelbot/internal/i18n"
	"babelbot/internal/queue"

	"github.com/Jeffail/gabs"
	"github.com/bwmarrin/discordgo"
)

// Permission levels form a total order: USER < ADMIN < OWNER.
type Permission int

const (
	PermissionUser Permission = iota
	PermissionAdmin
	PermissionOwner
)

func (p Permission) String() string {
	switch p {
	case PermissionAdmin:
		return "ADMIN"
	case PermissionOwner:
		return "OWNER"
	default:
		return "USER"
	}
}

// Satisfied reports whether a member clears the level. ADMIN is satisfied
// by guild-manage permission or owner identity; OWNER by the configured
// owner user id alone.
func (p Permission) Satisfied(userID string, canManageGuild bool, ownerID string) bool {
	switch p {
	case PermissionUser:
		return true
	case PermissionAdmin:
		return canManageGuild || (ownerID != "" && userID == ownerID)
	case PermissionOwner:
		return ownerID != "" && userID == ownerID
	default:
		return false
	}
}

// Scope restricts where a command may run, independent of permission.
type Scope uint8

const (
	ScopeGuild Scope = 1 << iota
	ScopeDM

	ScopeAll = ScopeGuild | ScopeDM
)

// Allows reports whether the scope admits a message from a guild channel
// (inGuild) or a direct message.
func (s Scope) Allows(inGuild bool) bool {
	if inGuild {
		return s&ScopeGuild != 0
	}
	return s&ScopeDM != 0
}

// Sender transmits resolvable content, resolving it against the target
// channel's locale before hitting the wire.
type Sender interface {
	Send(channelID string, content i18n.Resolvable) (*discordgo.Message, error)
	Edit(channelID, messageID string, content i18n.Resolvable) (*discordgo.Message, error)
}

// HandlerFunc is a command body. Content it sends may be Resolvable; the
// sender resolves against the invoking channel's locale.
type HandlerFunc func(ctx *Context) error

// Command is one registered chat command. Exactly one canonical
// registration exists per name; aliases resolve to it through thin
// forwarding wrappers.
type Command struct {
	Name       string
	Aliases    []string
	Permission Permission
	Scope      Scope
	Category   string
	Help       string
	Cooldown   time.Duration
	Season     *Season
	Run        HandlerFunc

	canonical *Command
}

// Canonical returns the command an alias forwards to, or the command
// itself for canonical registrations.
func (c *Command) Canonical() *Command {
	if c.canonical != nil {
		return c.canonical
	}
	return c
}

// IsAlias reports whether this entry is an alias wrapper.
func (c *Command) IsAlias() bool { return c.canonical != nil }

// Context is what the dispatcher hands a running command.
type Context struct {
	Session *discordgo.Session
	Message *discordgo.MessageCreate
	Args    []string
	Prefix  string
	Locale  string

	// GuildConfig is the invoking guild's effective config tree
	// (defaults merged with overrides); nil in direct messages.
	GuildConfig *gabs.Container

	// GuildQueue serializes long-running per-guild work; at most one
	// queued job runs at a time.
	GuildQueue *queue.Queue

	Catalog *i18n.Catalog
	Sender  Sender
}

// Send transmits resolvable content to the invoking channel.
func (c *Context) Send(content i18n.Resolvable) (*discordgo.Message, error) {
	return c.Sender.Send(c.Message.ChannelID, content)
}

// Edit replaces a previously sent message's content.
func (c *Context) Edit(messageID string, content i18n.Resolvable) (*discordgo.Message, error) {
	return c.Sender.Edit(c.Message.ChannelID, messageID, content)
}

// InGuild reports whether the message originated in a guild channel.
func (c *Context) InGuild() bool { return c.Message.GuildID != "" }
