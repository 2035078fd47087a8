package commands

import (
	"strings"

	"babelbot/internal/command"
	"babelbot/internal/i18n"

	"github.com/Jeffail/gabs"
)

// ConfigCmd exposes the guild configuration tree through the generic
// parameter definitions: list, get, set and reset run off the same
// declarations the dashboard bridge uses.
func ConfigCmd(deps Deps) *command.Command {
	return &command.Command{
		Name:       "config",
		Aliases:    []string{"settings"},
		Permission: command.PermissionAdmin,
		Scope:      command.ScopeGuild,
		Category:   "admin",
		Help:       "Inspect or change guild settings.",
		Run: func(ctx *command.Context) error {
			if len(ctx.Args) == 0 {
				return listConfig(deps, ctx)
			}
			switch strings.ToLower(ctx.Args[0]) {
			case "get":
				if len(ctx.Args) < 2 {
					return usage(ctx, "config get <path>")
				}
				return getConfig(deps, ctx, ctx.Args[1])
			case "set":
				if len(ctx.Args) < 3 {
					return usage(ctx, "config set <path> <value>")
				}
				return setConfig(deps, ctx, ctx.Args[1], strings.Join(ctx.Args[2:], " "))
			case "reset":
				if err := deps.Guilds.Reset(ctx.Message.GuildID); err != nil {
					return err
				}
				_, err := ctx.Send(ctx.Catalog.Phrase("config.reset", "All settings restored to their defaults."))
				return err
			default:
				return usage(ctx, "config [get|set|reset]")
			}
		},
	}
}

func listConfig(deps Deps, ctx *command.Context) error {
	out := i18n.NewMerge(ctx.Catalog.Phrase("config.title", "**Guild settings**")).Separator("\n")
	for _, param := range deps.Guilds.Parameters() {
		value, _, err := deps.Guilds.GetPath(ctx.Message.GuildID, param.Path)
		if err != nil {
			return err
		}
		out.Push(i18n.Literal("`" + param.Path + "` – " + param.Display(value)))
	}
	_, err := ctx.Send(out)
	return err
}

func getConfig(deps Deps, ctx *command.Context, path string) error {
	param, ok := deps.Guilds.Parameter(path)
	if !ok {
		_, err := ctx.Send(ctx.Catalog.Phrase("config.unknown", "There is no setting called `{{path}}`.").
			With("path", i18n.Literal(path)))
		return err
	}
	value, _, err := deps.Guilds.GetPath(ctx.Message.GuildID, param.Path)
	if err != nil {
		return err
	}
	_, err = ctx.Send(i18n.Literal("`" + param.Path + "` – " + param.Display(value)))
	return err
}

func setConfig(deps Deps, ctx *command.Context, path, input string) error {
	param, ok := deps.Guilds.Parameter(path)
	if !ok {
		_, err := ctx.Send(ctx.Catalog.Phrase("config.unknown", "There is no setting called `{{path}}`.").
			With("path", i18n.Literal(path)))
		return err
	}
	value, err := param.Coerce(input)
	if err != nil {
		_, serr := ctx.Send(ctx.Catalog.Phrase("config.invalid", "That value does not work: {{reason}}").
			With("reason", i18n.Literal(err.Error())))
		return serr
	}
	if err := param.Validate(value); err != nil {
		_, serr := ctx.Send(ctx.Catalog.Phrase("config.invalid", "That value does not work: {{reason}}").
			With("reason", i18n.Literal(err.Error())))
		return serr
	}

	partial := gabs.New()
	if _, err := partial.SetP(value, param.Path); err != nil {
		return err
	}
	if err := deps.Guilds.Set(ctx.Message.GuildID, partial.Data()); err != nil {
		return err
	}
	_, err = ctx.Send(ctx.Catalog.Phrase("config.saved", "`{{path}}` is now {{value}}.").
		With("path", i18n.Literal(param.Path)).
		With("value", i18n.Literal(param.Display(value))))
	return err
}

func usage(ctx *command.Context, line string) error {
	_, err := ctx.Send(ctx.Catalog.Phrase("errors.usage", "Usage: `{{usage}}`").
		With("usage", i18n.Literal(ctx.Prefix+line)))
	return err
}
