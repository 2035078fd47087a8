package commands

import (
	"errors"
	"strings"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// Locale shows or changes the guild and channel languages.
func Locale(deps Deps) *command.Command {
	return &command.Command{
		Name:       "locale",
		Aliases:    []string{"language", "lang"},
		Permission: command.PermissionAdmin,
		Scope:      command.ScopeGuild,
		Category:   "admin",
		Help:       "Show or change the bot language.",
		Run: func(ctx *command.Context) error {
			if len(ctx.Args) == 0 {
				return showLocale(deps, ctx)
			}
			switch strings.ToLower(ctx.Args[0]) {
			case "set":
				if len(ctx.Args) < 2 {
					return usage(ctx, "locale set <code>")
				}
				return setLocale(deps, ctx, ctx.Args[1], false)
			case "channel":
				if len(ctx.Args) < 2 {
					return usage(ctx, "locale channel <code|default>")
				}
				return setLocale(deps, ctx, ctx.Args[1], true)
			default:
				return usage(ctx, "locale [set|channel]")
			}
		},
	}
}

func showLocale(deps Deps, ctx *command.Context) error {
	known := deps.Catalog.Locales()
	items := make([]i18n.Resolvable, 0, len(known))
	for _, code := range known {
		items = append(items, i18n.Literal("`"+code+"`"))
	}
	_, err := ctx.Send(ctx.Catalog.Phrase("locale.current", "This channel speaks `{{locale}}`. Available: {{available}}").
		With("locale", i18n.Literal(ctx.Locale)).
		With("available", deps.Catalog.AndList(items...)))
	return err
}

func setLocale(deps Deps, ctx *command.Context, code string, channel bool) error {
	var err error
	if channel {
		err = deps.Locales.SetChannel(ctx.Message.GuildID, ctx.Message.ChannelID, code)
	} else {
		err = deps.Locales.SetGlobal(ctx.Message.GuildID, code)
	}
	if errors.Is(err, i18n.ErrUnknownLocale) {
		_, serr := ctx.Send(ctx.Catalog.Phrase("locale.unknown", "I don't speak `{{locale}}` yet.").
			With("locale", i18n.Literal(code)))
		return serr
	}
	if err != nil {
		return err
	}

	// Resolve the confirmation in the freshly selected language.
	effective := deps.Locales.Get(ctx.Message.GuildID, ctx.Message.ChannelID)
	_, err = ctx.Sender.Send(ctx.Message.ChannelID,
		i18n.Literal(ctx.Catalog.Translate(effective, "locale.saved", "From now on I will answer in this language.")))
	return err
}
