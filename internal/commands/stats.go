package commands

import (
	"sort"
	"strconv"
	"time"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// StatsCmd reports global and guild command usage.
func StatsCmd(deps Deps) *command.Command {
	return &command.Command{
		Name:     "stats",
		Aliases:  []string{"usage"},
		Scope:    command.ScopeAll,
		Category: "core",
		Help:     "Show command usage statistics.",
		Cooldown: 10 * time.Second,
		Run: func(ctx *command.Context) error {
			total, err := deps.Stats.Executed()
			if err != nil {
				return err
			}
			out := i18n.NewMerge(
				deps.Catalog.PluralPhrase("stats.total",
					"[1] I have run one command so far.|[2,] I have run {{count}} commands so far.", total),
			).Separator("\n")

			if ctx.InGuild() {
				report, err := deps.Stats.Report(ctx.Message.GuildID, time.Now().Add(-24*time.Hour))
				if err != nil {
					return err
				}
				out.Push(deps.Catalog.PluralPhrase("stats.guild",
					"[0] Nothing ran here in the last day.|[1] One command ran here in the last day.|[2,] {{count}} commands ran here in the last day.",
					report.Total))
				for _, line := range topCommands(report.ByCommand, 5) {
					out.Push(i18n.Literal(line))
				}
			}
			_, err = ctx.Send(out)
			return err
		},
	}
}

func topCommands(byCommand map[string]int, limit int) []string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(byCommand))
	for name, count := range byCommand {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, "• `"+e.name+"` × "+strconv.Itoa(e.count))
	}
	return lines
}
