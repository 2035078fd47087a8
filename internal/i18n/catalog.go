package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Jeffail/gabs"
	"go.uber.org/zap"
)

// Catalog owns the per-locale translation trees loaded from a directory of
// JSON files, one per locale code. Lookups walk the requested locale, the
// configured fallback locale, then the default locale. Requests that miss
// everywhere and carry a default phrase self-heal: the phrase is written
// into the default locale's tree and flushed back to disk.
type Catalog struct {
	log      *zap.Logger
	dir      string
	def      string
	fallback string

	mu      sync.RWMutex
	locales map[string]*gabs.Container

	watcher *watcher
}

func NewCatalog(log *zap.Logger, dir, defaultLocale, fallbackLocale string) *Catalog {
	return &Catalog{
		log:      log,
		dir:      dir,
		def:      defaultLocale,
		fallback: fallbackLocale,
		locales:  make(map[string]*gabs.Container),
	}
}

// Load discovers and parses every *.json file in the catalog directory.
// Malformed files are renamed aside with a .invalid suffix instead of
// failing the load.
func (c *Catalog) Load() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read locale dir: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		c.readLocked(strings.TrimSuffix(name, ".json"))
	}
	if c.locales[c.def] == nil {
		c.locales[c.def] = gabs.New()
	}
	return nil
}

// readLocked parses one locale file into the tree map. Callers hold c.mu.
func (c *Catalog) readLocked(locale string) {
	path := filepath.Join(c.dir, locale+".json")
	tree, err := gabs.ParseJSONFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		c.log.Warn("quarantining malformed locale file",
			zap.String("locale", locale), zap.Error(err))
		if renameErr := os.Rename(path, path+".invalid"); renameErr != nil {
			c.log.Error("locale quarantine failed", zap.Error(renameErr))
		}
		return
	}
	c.locales[locale] = tree
}

// Locales lists the locale codes currently loaded.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes := make([]string, 0, len(c.locales))
	for code := range c.locales {
		codes = append(codes, code)
	}
	return codes
}

// Known reports whether a locale code has a loaded tree.
func (c *Catalog) Known(locale string) bool {
	c.mu.RLock()
	_, ok := c.locales[locale]
	c.mu.RUnlock()
	if ok {
		return true
	}
	return c.tree(locale) != nil
}

// DefaultLocale returns the catalog's default locale code.
func (c *Catalog) DefaultLocale() string { return c.def }

// tree returns the locale's tree, reading its file lazily on first use.
// With auto-reload enabled the watcher keeps trees current instead.
func (c *Catalog) tree(locale string) *gabs.Container {
	c.mu.RLock()
	tree := c.locales[locale]
	c.mu.RUnlock()
	if tree != nil || c.watcher != nil {
		return tree
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tree := c.locales[locale]; tree != nil {
		return tree
	}
	c.readLocked(locale)
	return c.locales[locale]
}

// Translate resolves id for the locale, walking the fallback chain. A miss
// with a non-empty default phrase returns the default and persists it into
// the default locale (upsert-on-miss, logged).
func (c *Catalog) Translate(locale, id, def string) string {
	value, ok := c.lookup(locale, id)
	if !ok {
		if def == "" {
			return id
		}
		c.selfHeal(id, def)
		return def
	}

	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		// Plural pair looked up without a count; degrade to "other"
		// rather than rendering the object.
		if other, ok := v["other"].(string); ok {
			return other
		}
	}
	if def != "" {
		return def
	}
	return id
}

// TranslateN resolves id for the locale with count-aware selection:
// interval clauses first, then the locale's plural category, then "other".
func (c *Catalog) TranslateN(locale, id, def string, count int) string {
	value, ok := c.lookup(locale, id)
	if !ok {
		if def == "" {
			return id
		}
		c.selfHeal(id, def)
		value = def
	}

	switch v := value.(type) {
	case string:
		return selectClause(locale, v, count)
	case map[string]interface{}:
		category := pluralCategory(locale, count)
		if phrase, ok := v[category].(string); ok {
			return selectClause(locale, phrase, count)
		}
		if phrase, ok := v["other"].(string); ok {
			return selectClause(locale, phrase, count)
		}
	}
	if def != "" {
		return selectClause(locale, def, count)
	}
	return id
}

func selectClause(locale, phrase string, count int) string {
	if !strings.Contains(phrase, "|") && !hasIntervals(phrase) {
		return phrase
	}
	if body, ok := selectInterval(phrase, count); ok {
		return body
	}
	// No interval clause matched; the first non-interval clause is the
	// plain fallback body.
	for _, clause := range splitClauses(phrase) {
		if !hasIntervals(clause) {
			return strings.TrimSpace(clause)
		}
	}
	return phrase
}

// lookup walks locale -> fallback -> default and returns the raw node data.
func (c *Catalog) lookup(locale, id string) (interface{}, bool) {
	for _, code := range c.chain(locale) {
		tree := c.tree(code)
		if tree == nil {
			continue
		}
		c.mu.RLock()
		exists := tree.ExistsP(id)
		var data interface{}
		if exists {
			data = tree.Path(id).Data()
		}
		c.mu.RUnlock()
		if exists {
			return data, true
		}
	}
	return nil, false
}

func (c *Catalog) chain(locale string) []string {
	chain := []string{locale}
	if c.fallback != "" && c.fallback != locale {
		chain = append(chain, c.fallback)
	}
	if c.def != locale && c.def != c.fallback {
		chain = append(chain, c.def)
	}
	return chain
}

// selfHeal provisions a missing id with the caller-supplied phrase in the
// default locale and flushes the file. Writes are idempotent, so racing
// first uses of the same id are harmless.
func (c *Catalog) selfHeal(id, def string) {
	c.mu.Lock()
	tree := c.locales[c.def]
	if tree == nil {
		tree = gabs.New()
		c.locales[c.def] = tree
	}
	if _, err := tree.SetP(def, id); err != nil {
		c.mu.Unlock()
		c.log.Error("self-heal set failed", zap.String("id", id), zap.Error(err))
		return
	}
	data := []byte(tree.StringIndent("", "  "))
	c.mu.Unlock()

	c.log.Info("provisioned missing translation",
		zap.String("id", id), zap.String("locale", c.def))
	path := filepath.Join(c.dir, c.def+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.log.Error("locale flush failed", zap.String("locale", c.def), zap.Error(err))
	}
}
