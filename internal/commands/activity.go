package commands

import (
	"time"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// Activity scans the channel's recent history and reports the most active
// authors. The scan pages through the REST API, so it runs on the guild
// queue; a second invocation waits for the first to finish.
func Activity(deps Deps) *command.Command {
	return &command.Command{
		Name:       "activity",
		Aliases:    []string{"active"},
		Permission: command.PermissionAdmin,
		Scope:      command.ScopeGuild,
		Category:   "admin",
		Help:       "Show who talks the most in this channel.",
		Cooldown:   30 * time.Second,
		Run: func(ctx *command.Context) error {
			lookback := 1000
			if ctx.GuildConfig != nil {
				if n, ok := ctx.GuildConfig.Path("activity.lookback").Data().(float64); ok {
					lookback = int(n)
				} else if n, ok := ctx.GuildConfig.Path("activity.lookback").Data().(int); ok {
					lookback = n
				}
			}

			placeholder, err := ctx.Send(deps.Catalog.PluralPhrase("activity.scanning",
				"[1] Reading the last message…|[2,] Reading the last {{count}} messages…", lookback))
			if err != nil {
				return err
			}

			ctx.GuildQueue.Push(func() error {
				counts, scanned, err := scanChannel(ctx, lookback)
				if err != nil {
					_, serr := ctx.Edit(placeholder.ID,
						deps.Catalog.Phrase("activity.failed", "I could not read the channel history."))
					if serr != nil {
						return serr
					}
					return err
				}
				_, err = ctx.Edit(placeholder.ID, activityReport(deps, counts, scanned))
				return err
			})
			return nil
		},
	}
}

func scanChannel(ctx *command.Context, lookback int) (map[string]int, int, error) {
	counts := map[string]int{}
	scanned := 0
	before := ""
	for scanned < lookback {
		page := lookback - scanned
		if page > 100 {
			page = 100
		}
		messages, err := ctx.Session.ChannelMessages(ctx.Message.ChannelID, page, before, "", "")
		if err != nil {
			return nil, 0, err
		}
		if len(messages) == 0 {
			break
		}
		for _, msg := range messages {
			scanned++
			if msg.Author == nil || msg.Author.Bot {
				continue
			}
			counts[msg.Author.Username]++
		}
		before = messages[len(messages)-1].ID
	}
	return counts, scanned, nil
}

func activityReport(deps Deps, counts map[string]int, scanned int) i18n.Resolvable {
	out := i18n.NewMerge(deps.Catalog.PluralPhrase("activity.header",
		"[0] The channel is empty.|[1] Out of one message:|[2,] Out of the last {{count}} messages:", scanned)).
		Separator("\n")
	for _, line := range topCommands(counts, 5) {
		out.Push(i18n.Literal(line))
	}
	return out
}
