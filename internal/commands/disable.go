package commands

import (
	"strings"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// Disable turns a command off for the whole guild, or for one channel when
// a channel mention follows the name. The dispatcher drops disabled
// invocations silently.
func Disable(deps Deps, registry *command.Registry) *command.Command {
	return &command.Command{
		Name:       "disable",
		Permission: command.PermissionAdmin,
		Scope:      command.ScopeGuild,
		Category:   "admin",
		Help:       "Turn a command off here.",
		Run: func(ctx *command.Context) error {
			return toggleCommand(deps, registry, ctx, true)
		},
	}
}

// Enable reverts a disable.
func Enable(deps Deps, registry *command.Registry) *command.Command {
	return &command.Command{
		Name:       "enable",
		Permission: command.PermissionAdmin,
		Scope:      command.ScopeGuild,
		Category:   "admin",
		Help:       "Turn a command back on.",
		Run: func(ctx *command.Context) error {
			return toggleCommand(deps, registry, ctx, false)
		},
	}
}

// essentials stay reachable so a guild cannot lock itself out.
var undisableable = map[string]bool{
	"enable":  true,
	"disable": true,
	"config":  true,
}

func toggleCommand(deps Deps, registry *command.Registry, ctx *command.Context, disabled bool) error {
	verb := "disable"
	if !disabled {
		verb = "enable"
	}
	if len(ctx.Args) == 0 {
		return usage(ctx, verb+" <command> [#channel]")
	}

	cmd, ok := registry.Lookup(ctx.Args[0])
	if !ok {
		_, err := ctx.Send(ctx.Catalog.Phrase("disable.unknown", "There is no command called `{{name}}`.").
			With("name", i18n.Literal(ctx.Args[0])))
		return err
	}
	name := cmd.Canonical().Name
	if disabled && undisableable[name] {
		_, err := ctx.Send(ctx.Catalog.Phrase("disable.protected", "`{{name}}` has to stay enabled.").
			With("name", i18n.Literal(name)))
		return err
	}

	channelID := ""
	if len(ctx.Args) > 1 {
		mention := strings.TrimSuffix(strings.TrimPrefix(ctx.Args[1], "<#"), ">")
		if mention == ctx.Args[1] {
			return usage(ctx, verb+" <command> [#channel]")
		}
		channelID = mention
	}

	if err := deps.Disabled.SetCommandDisabled(ctx.Message.GuildID, channelID, name, disabled); err != nil {
		return err
	}

	id, def := "disable.off", "`{{name}}` is now disabled."
	if !disabled {
		id, def = "disable.on", "`{{name}}` is enabled again."
	}
	_, err := ctx.Send(ctx.Catalog.Phrase(id, def).With("name", i18n.Literal(name)))
	return err
}
