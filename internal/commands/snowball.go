package commands

import (
	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// Snowball is only dispatchable during the winter season; outside it the
// dispatcher drops the invocation silently.
func Snowball(deps Deps) *command.Command {
	season, err := command.ParseSeason("0 0 1 12 *", "0 0 7 1 *")
	if err != nil {
		panic(err)
	}
	return &command.Command{
		Name:     "snowball",
		Scope:    command.ScopeGuild,
		Category: "fun",
		Help:     "Throw a snowball at someone.",
		Season:   season,
		Run: func(ctx *command.Context) error {
			target := ctx.Message.Author.Username
			if len(ctx.Message.Mentions) > 0 {
				target = ctx.Message.Mentions[0].Username
			}
			_, err := ctx.Send(ctx.Catalog.Phrase("snowball.hit", "**{{target}}** gets hit by a snowball! ❄️").
				With("target", i18n.Literal(target)))
			return err
		},
	}
}
