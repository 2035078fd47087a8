package commands

import (
	"time"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// Ping answers with a localized pong and the measured edit round trip.
func Ping(deps Deps) *command.Command {
	return &command.Command{
		Name:     "ping",
		Aliases:  []string{"pong"},
		Scope:    command.ScopeAll,
		Category: "core",
		Help:     "Check whether the bot is alive.",
		Run: func(ctx *command.Context) error {
			started := time.Now()
			msg, err := ctx.Send(ctx.Catalog.Phrase("ping.pong", "Pong!"))
			if err != nil {
				return err
			}
			elapsed := time.Since(started).Round(time.Millisecond)
			_, err = ctx.Edit(msg.ID, ctx.Catalog.Phrase("ping.latency", "Pong! ({{latency}})").
				With("latency", i18n.Literal(elapsed.String())))
			return err
		},
	}
}
