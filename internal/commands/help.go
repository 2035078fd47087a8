package commands

import (
	"sort"

	"babelbot/internal/command"
	"babelbot/internal/i18n"
)

// Help lists registered commands grouped by category. Seasonal commands
// outside their season are omitted entirely.
func Help(deps Deps, registry *command.Registry) *command.Command {
	return &command.Command{
		Name:     "help",
		Aliases:  []string{"commands"},
		Scope:    command.ScopeAll,
		Category: "core",
		Help:     "List available commands.",
		Run: func(ctx *command.Context) error {
			byCategory := map[string][]*command.Command{}
			for _, cmd := range registry.All() {
				if cmd.Season != nil && deps.Seasons.State(cmd.Name) != command.InSeason {
					continue
				}
				byCategory[cmd.Category] = append(byCategory[cmd.Category], cmd)
			}
			categories := make([]string, 0, len(byCategory))
			for cat := range byCategory {
				categories = append(categories, cat)
			}
			sort.Strings(categories)

			out := i18n.NewMerge(ctx.Catalog.Phrase("help.title", "**Commands**")).Separator("\n")
			for _, cat := range categories {
				out.Push(ctx.Catalog.Phrase("help.categories."+cat, "__"+cat+"__"))
				for _, cmd := range byCategory[cat] {
					out.Push(i18n.NewMerge(
						i18n.Literal("`"+ctx.Prefix+cmd.Name+"`"),
						helpPhrase(deps, cmd.Name, cmd.Help),
					).Separator(" – "))
				}
			}
			_, err := ctx.Send(out)
			return err
		},
	}
}
