// Package commands holds the bot's built-in chat commands. Each command
// is declared as data plus a handler; registration happens once at boot.
package commands

import (
	"babelbot/internal/command"
	"babelbot/internal/guildconfig"
	"babelbot/internal/i18n"
	"babelbot/internal/stats"
)

// Disabler flips per-guild and per-channel command disable flags.
type Disabler interface {
	SetCommandDisabled(guildID, channelID, name string, disabled bool) error
}

// Deps are the collaborators handlers close over.
type Deps struct {
	Catalog  *i18n.Catalog
	Guilds   *guildconfig.Store
	Locales  *i18n.LocaleManager
	Stats    *stats.Service
	Seasons  *command.SeasonWatcher
	Disabled Disabler
}

// RegisterAll wires every built-in command into the registry and tracks
// the seasonal ones.
func RegisterAll(registry *command.Registry, deps Deps) error {
	all := []*command.Command{
		Ping(deps),
		EightBall(deps),
		Help(deps, registry),
		ConfigCmd(deps),
		Disable(deps, registry),
		Enable(deps, registry),
		Locale(deps),
		StatsCmd(deps),
		Activity(deps),
		Snowball(deps),
	}
	for _, cmd := range all {
		if err := registry.Register(cmd); err != nil {
			return err
		}
		if cmd.Season != nil {
			deps.Seasons.Track(cmd.Name, cmd.Season)
		}
	}
	return nil
}

// helpPhrase resolves a command's help line through the catalog so listings
// localize; the English default self-registers on first use.
func helpPhrase(deps Deps, name, def string) i18n.Resolvable {
	return deps.Catalog.Phrase("help.commands."+name, def)
}
