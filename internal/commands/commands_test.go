package commands

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"babelbot/internal/command"
	"babelbot/internal/guildconfig"
	"babelbot/internal/i18n"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type fakeSender struct {
	locale string
	sent   []string
	edits  []string
	nextID int
}

func (s *fakeSender) Send(channelID string, content i18n.Resolvable) (*discordgo.Message, error) {
	s.sent = append(s.sent, content.Resolve(s.locale))
	s.nextID++
	return &discordgo.Message{ID: strconv.Itoa(s.nextID), ChannelID: channelID}, nil
}

func (s *fakeSender) Edit(channelID, messageID string, content i18n.Resolvable) (*discordgo.Message, error) {
	s.edits = append(s.edits, content.Resolve(s.locale))
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

type fakeGuildBackend struct {
	docs map[string]map[string]interface{}
}

func (b *fakeGuildBackend) GetGuildConfig(guildID string) (map[string]interface{}, error) {
	return b.docs[guildID], nil
}

func (b *fakeGuildBackend) SetGuildConfig(guildID string, doc map[string]interface{}) error {
	if b.docs == nil {
		b.docs = map[string]map[string]interface{}{}
	}
	b.docs[guildID] = doc
	return nil
}

func (b *fakeGuildBackend) DeleteGuildConfig(guildID string) error {
	delete(b.docs, guildID)
	return nil
}

type fakeLocaleStore struct {
	configs map[string]i18n.LocaleConfig
}

func (s *fakeLocaleStore) GetLocales(guildID string) (i18n.LocaleConfig, error) {
	return s.configs[guildID], nil
}

func (s *fakeLocaleStore) SetLocales(guildID string, cfg i18n.LocaleConfig) error {
	if s.configs == nil {
		s.configs = map[string]i18n.LocaleConfig{}
	}
	s.configs[guildID] = cfg
	return nil
}

type fakeDisabler struct {
	toggles []string
}

func (d *fakeDisabler) SetCommandDisabled(guildID, channelID, name string, disabled bool) error {
	state := "on"
	if disabled {
		state = "off"
	}
	d.toggles = append(d.toggles, guildID+"/"+channelID+"/"+name+"="+state)
	return nil
}

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

func (c stubClock) AfterFunc(time.Duration, func()) command.Timer { return stubTimer{} }

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	dir := t.TempDir()
	en := `{"glossary": {"and": "and", "or": "or"}}`
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte(en), 0o644); err != nil {
		t.Fatalf("write locale: %v", err)
	}
	catalog := i18n.NewCatalog(zap.NewNop(), dir, "en", "en")
	if err := catalog.Load(); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

func testDeps(t *testing.T) (Deps, *fakeSender) {
	t.Helper()
	catalog := testCatalog(t)
	deps := Deps{
		Catalog:  catalog,
		Guilds:   guildconfig.New(&fakeGuildBackend{}, guildconfig.BotParameters()),
		Locales:  i18n.NewLocaleManager(catalog, &fakeLocaleStore{}),
		Seasons:  command.NewSeasonWatcher(),
		Disabled: &fakeDisabler{},
	}
	return deps, &fakeSender{locale: "en"}
}

func testContext(deps Deps, sender *fakeSender, args ...string) *command.Context {
	return &command.Context{
		Message: &discordgo.MessageCreate{Message: &discordgo.Message{
			ID:        "m1",
			ChannelID: "chan",
			GuildID:   "guild",
			Author:    &discordgo.User{ID: "user", Username: "alice"},
		}},
		Args:    args,
		Prefix:  "!",
		Locale:  "en",
		Catalog: deps.Catalog,
		Sender:  sender,
	}
}

func TestConfigSetPersistsValue(t *testing.T) {
	deps, sender := testDeps(t)
	cmd := ConfigCmd(deps)

	if err := cmd.Run(testContext(deps, sender, "set", "main.prefix", "?")); err != nil {
		t.Fatalf("run: %v", err)
	}
	value, _, err := deps.Guilds.GetPath("guild", "main.prefix")
	if err != nil {
		t.Fatalf("get path: %v", err)
	}
	if value != "?" {
		t.Fatalf("stored prefix = %v, want ?", value)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "main.prefix") {
		t.Fatalf("unexpected reply %v", sender.sent)
	}
}

func TestConfigSetRejectsUnknownPath(t *testing.T) {
	deps, sender := testDeps(t)
	cmd := ConfigCmd(deps)

	if err := cmd.Run(testContext(deps, sender, "set", "no.such.path", "x")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "no.such.path") {
		t.Fatalf("want unknown-path reply, got %v", sender.sent)
	}
	if _, ok := deps.Guilds.Parameter("no.such.path"); ok {
		t.Fatal("unknown path must not gain a parameter")
	}
}

func TestConfigSetRejectsFailedCheck(t *testing.T) {
	deps, sender := testDeps(t)
	cmd := ConfigCmd(deps)

	if err := cmd.Run(testContext(deps, sender, "set", "activity.lookback", "99999")); err != nil {
		t.Fatalf("run: %v", err)
	}
	value, _, err := deps.Guilds.GetPath("guild", "activity.lookback")
	if err != nil {
		t.Fatalf("get path: %v", err)
	}
	if n, _ := value.(int); n != 1000 {
		t.Fatalf("lookback = %v, want untouched default 1000", value)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "does not work") {
		t.Fatalf("want validation reply, got %v", sender.sent)
	}
}

func TestConfigListShowsEveryParameter(t *testing.T) {
	deps, sender := testDeps(t)
	cmd := ConfigCmd(deps)

	if err := cmd.Run(testContext(deps, sender)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want one reply, got %d", len(sender.sent))
	}
	for _, param := range deps.Guilds.Parameters() {
		if !strings.Contains(sender.sent[0], param.Path) {
			t.Fatalf("listing misses %s: %q", param.Path, sender.sent[0])
		}
	}
}

func TestLocaleSetUnknownCodeReplies(t *testing.T) {
	deps, sender := testDeps(t)
	cmd := Locale(deps)

	if err := cmd.Run(testContext(deps, sender, "set", "xx")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "xx") {
		t.Fatalf("want unknown-locale reply, got %v", sender.sent)
	}
	if got := deps.Locales.Get("guild", "chan"); got != "en" {
		t.Fatalf("locale changed to %s despite rejection", got)
	}
}

func TestHelpHidesOutOfSeasonCommands(t *testing.T) {
	deps, sender := testDeps(t)
	deps.Seasons.WithClock(stubClock{now: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)})

	registry := command.NewRegistry()
	if err := RegisterAll(registry, deps); err != nil {
		t.Fatalf("register: %v", err)
	}
	defer deps.Seasons.Stop()

	cmd, _ := registry.Lookup("help")
	if err := cmd.Run(testContext(deps, sender)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want one reply, got %d", len(sender.sent))
	}
	if strings.Contains(sender.sent[0], "snowball") {
		t.Fatalf("out-of-season command listed: %q", sender.sent[0])
	}
	if !strings.Contains(sender.sent[0], "!ping") {
		t.Fatalf("listing misses ping: %q", sender.sent[0])
	}
}

func TestDisableTogglesCommand(t *testing.T) {
	deps, sender := testDeps(t)
	disabler := deps.Disabled.(*fakeDisabler)
	registry := command.NewRegistry()
	registry.Register(Ping(deps))
	registry.Register(Disable(deps, registry))
	registry.Register(Enable(deps, registry))

	disable, _ := registry.Lookup("disable")
	if err := disable.Run(testContext(deps, sender, "pong", "<#chan>")); err != nil {
		t.Fatalf("run: %v", err)
	}
	enable, _ := registry.Lookup("enable")
	if err := enable.Run(testContext(deps, sender, "ping")); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"guild/chan/ping=off", "guild//ping=on"}
	if len(disabler.toggles) != 2 || disabler.toggles[0] != want[0] || disabler.toggles[1] != want[1] {
		t.Fatalf("toggles = %v, want %v", disabler.toggles, want)
	}
}

func TestDisableRefusesProtectedCommands(t *testing.T) {
	deps, sender := testDeps(t)
	disabler := deps.Disabled.(*fakeDisabler)
	registry := command.NewRegistry()
	registry.Register(Disable(deps, registry))
	registry.Register(Enable(deps, registry))

	disable, _ := registry.Lookup("disable")
	if err := disable.Run(testContext(deps, sender, "disable")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(disabler.toggles) != 0 {
		t.Fatalf("protected command was toggled: %v", disabler.toggles)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "stay enabled") {
		t.Fatalf("want protection reply, got %v", sender.sent)
	}
}

func TestPingEditsInLatency(t *testing.T) {
	deps, sender := testDeps(t)
	cmd := Ping(deps)

	if err := cmd.Run(testContext(deps, sender)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "Pong!" {
		t.Fatalf("want initial Pong!, got %v", sender.sent)
	}
	if len(sender.edits) != 1 || !strings.HasPrefix(sender.edits[0], "Pong! (") {
		t.Fatalf("want latency edit, got %v", sender.edits)
	}
}

func TestTopCommandsOrdersAndLimits(t *testing.T) {
	counts := map[string]int{"a": 1, "b": 5, "c": 3, "d": 3, "e": 2, "f": 9}
	lines := topCommands(counts, 3)
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"`f`", "`b`", "`c`"} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d = %q, want %s", i, lines[i], want)
		}
	}
}
