package i18n

import (
	"strconv"
	"strings"
)

// Resolvable is a value that may depend on a locale and is only computed
// into a concrete string once a locale is supplied. Resolve must be pure:
// resolving twice against the same locale yields the same output.
type Resolvable interface {
	Resolve(locale string) string
}

// Literal is an already-resolved string.
type Literal string

func (l Literal) Resolve(string) string { return string(l) }

// Phrase resolves a catalog id, self-registering the default phrase when
// the id has no stored translation yet.
type Phrase struct {
	catalog *Catalog
	id      string
	def     string
	args    map[string]Resolvable
}

func (c *Catalog) Phrase(id, def string) *Phrase {
	return &Phrase{catalog: c, id: id, def: def}
}

// With adds a named substitution argument and returns the phrase.
func (p *Phrase) With(name string, value Resolvable) *Phrase {
	if p.args == nil {
		p.args = make(map[string]Resolvable)
	}
	p.args[name] = value
	return p
}

func (p *Phrase) Resolve(locale string) string {
	out := p.catalog.Translate(locale, p.id, p.def)
	return substitute(out, locale, p.args)
}

// Merge joins child resolvables with a separator, single space by default.
// Nil children are dropped at construction and push time.
type Merge struct {
	sep   string
	parts []Resolvable
}

func NewMerge(parts ...Resolvable) *Merge {
	m := &Merge{sep: " "}
	m.Push(parts...)
	return m
}

func (m *Merge) Separator(sep string) *Merge {
	m.sep = sep
	return m
}

func (m *Merge) Push(parts ...Resolvable) *Merge {
	for _, part := range parts {
		if part == nil {
			continue
		}
		m.parts = append(m.parts, part)
	}
	return m
}

func (m *Merge) Resolve(locale string) string {
	resolved := make([]string, 0, len(m.parts))
	for _, part := range m.parts {
		resolved = append(resolved, part.Resolve(locale))
	}
	return strings.Join(resolved, m.sep)
}

// ListStyle selects how a List joins its items.
type ListStyle int

const (
	// ListShort joins all items with commas.
	ListShort ListStyle = iota
	// ListLong inserts the translated conjunction before the last item.
	ListLong
)

// List joins resolved items with a locale-aware conjunction.
type List struct {
	catalog *Catalog
	conjID  string
	style   ListStyle
	items   []Resolvable
}

// AndList builds a long-style list joined with the locale's "and".
func (c *Catalog) AndList(items ...Resolvable) *List {
	return &List{catalog: c, conjID: "glossary.and", style: ListLong, items: items}
}

// OrList builds a long-style list joined with the locale's "or".
func (c *Catalog) OrList(items ...Resolvable) *List {
	return &List{catalog: c, conjID: "glossary.or", style: ListLong, items: items}
}

func (l *List) Style(style ListStyle) *List {
	l.style = style
	return l
}

func (l *List) Push(items ...Resolvable) *List {
	for _, item := range items {
		if item == nil {
			continue
		}
		l.items = append(l.items, item)
	}
	return l
}

func (l *List) Resolve(locale string) string {
	resolved := make([]string, 0, len(l.items))
	for _, item := range l.items {
		resolved = append(resolved, item.Resolve(locale))
	}
	switch {
	case len(resolved) == 0:
		return ""
	case len(resolved) == 1:
		return resolved[0]
	case l.style == ListShort:
		return strings.Join(resolved, ", ")
	}
	conj := l.catalog.Translate(locale, l.conjID, "and")
	head := strings.Join(resolved[:len(resolved)-1], ", ")
	return head + " " + conj + " " + resolved[len(resolved)-1]
}

// Format wraps a template, itself resolvable, and named arguments; the
// {{name}} substitution happens after both sides resolved against the
// supplied locale.
type Format struct {
	template Resolvable
	args     map[string]Resolvable
}

func NewFormat(template Resolvable, args map[string]Resolvable) *Format {
	return &Format{template: template, args: args}
}

func (f *Format) Resolve(locale string) string {
	return substitute(f.template.Resolve(locale), locale, f.args)
}

// Plural defers to the catalog's count-aware translation, then applies
// Format-style substitution. {{count}} is always available.
type Plural struct {
	catalog *Catalog
	id      string
	def     string
	count   int
	args    map[string]Resolvable
}

func (c *Catalog) PluralPhrase(id, def string, count int) *Plural {
	return &Plural{catalog: c, id: id, def: def, count: count}
}

func (p *Plural) With(name string, value Resolvable) *Plural {
	if p.args == nil {
		p.args = make(map[string]Resolvable)
	}
	p.args[name] = value
	return p
}

func (p *Plural) Resolve(locale string) string {
	out := p.catalog.TranslateN(locale, p.id, p.def, p.count)
	out = strings.ReplaceAll(out, "{{count}}", strconv.Itoa(p.count))
	return substitute(out, locale, p.args)
}

func substitute(template, locale string, args map[string]Resolvable) string {
	for name, value := range args {
		if value == nil {
			continue
		}
		template = strings.ReplaceAll(template, "{{"+name+"}}", value.Resolve(locale))
	}
	return template
}
