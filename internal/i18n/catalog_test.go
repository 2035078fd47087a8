package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jeffail/gabs"
	"go.uber.org/zap"
)

func TestTranslateFallbackChain(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"only": {"en": "english"}}`)
	writeLocale(t, dir, "de", `{"only": {"de": "deutsch"}}`)
	writeLocale(t, dir, "fr", `{}`)

	c := NewCatalog(zap.NewNop(), dir, "en", "de")
	if err := c.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := c.Translate("fr", "only.de", ""); got != "deutsch" {
		t.Fatalf("expected fallback locale hit, got %q", got)
	}
	if got := c.Translate("fr", "only.en", ""); got != "english" {
		t.Fatalf("expected default locale hit, got %q", got)
	}
	if got := c.Translate("fr", "missing.key", ""); got != "missing.key" {
		t.Fatalf("expected id returned on total miss, got %q", got)
	}
}

func TestTranslateSelfHealsMissingKey(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{}`)

	c := NewCatalog(zap.NewNop(), dir, "en", "")
	if err := c.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := c.Translate("en", "new.key", "Hello"); got != "Hello" {
		t.Fatalf("expected supplied default, got %q", got)
	}

	// The default phrase must have been written through to the file.
	tree, err := gabs.ParseJSONFile(filepath.Join(dir, "en.json"))
	if err != nil {
		t.Fatalf("reparse default locale: %v", err)
	}
	if got, ok := tree.Path("new.key").Data().(string); !ok || got != "Hello" {
		t.Fatalf("expected persisted %q, got %v", "Hello", tree.Path("new.key").Data())
	}

	// Subsequent lookups hit the provisioned entry.
	if got := c.Translate("en", "new.key", ""); got != "Hello" {
		t.Fatalf("expected provisioned entry, got %q", got)
	}
}

func TestLoadQuarantinesMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{}`)
	writeLocale(t, dir, "broken", `{"unterminated": `)

	c := NewCatalog(zap.NewNop(), dir, "en", "")
	if err := c.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Known("broken") {
		t.Fatalf("malformed locale must not load")
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.json.invalid")); err != nil {
		t.Fatalf("expected quarantined file: %v", err)
	}
}

func TestTreeReadsLazilyOnFirstUse(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{}`)

	c := NewCatalog(zap.NewNop(), dir, "en", "")
	if err := c.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	// File appears after startup; first use reads it.
	writeLocale(t, dir, "es", `{"hola": "hola"}`)
	if got := c.Translate("es", "hola", ""); got != "hola" {
		t.Fatalf("expected lazy read, got %q", got)
	}
}

func TestTranslateNFallsBackToOtherCategory(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"things": {"one": "a thing", "other": "things"}}`)

	c := NewCatalog(zap.NewNop(), dir, "en", "")
	if err := c.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Japanese has no "one" category distinct from other; selection must
	// land on "other" rather than failing.
	if got := c.TranslateN("ja", "things", "", 1); got != "things" {
		t.Fatalf("expected other-category fallback, got %q", got)
	}
}

func TestSelfHealWriteIsIndented(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"a": "b"}`)

	c := NewCatalog(zap.NewNop(), dir, "en", "")
	if err := c.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Translate("en", "x.y", "z")

	data, err := os.ReadFile(filepath.Join(dir, "en.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "\n") {
		t.Fatalf("expected indented output for hand-editing, got %q", data)
	}
}
