package bot

import (
	"babelbot/internal/i18n"

	"github.com/bwmarrin/discordgo"
)

// LocalizedSender resolves Resolvable content against the target channel's
// effective locale just before transmission, so the same object graph can
// serve channels in different languages.
type LocalizedSender struct {
	session *discordgo.Session
	locales *i18n.LocaleManager
}

func NewLocalizedSender(session *discordgo.Session, locales *i18n.LocaleManager) *LocalizedSender {
	return &LocalizedSender{session: session, locales: locales}
}

func (s *LocalizedSender) Send(channelID string, content i18n.Resolvable) (*discordgo.Message, error) {
	return s.session.ChannelMessageSend(channelID, content.Resolve(s.locale(channelID)))
}

func (s *LocalizedSender) Edit(channelID, messageID string, content i18n.Resolvable) (*discordgo.Message, error) {
	return s.session.ChannelMessageEdit(channelID, messageID, content.Resolve(s.locale(channelID)))
}

func (s *LocalizedSender) locale(channelID string) string {
	guildID := ""
	if channel, err := s.session.State.Channel(channelID); err == nil {
		guildID = channel.GuildID
	}
	return s.locales.Get(guildID, channelID)
}
