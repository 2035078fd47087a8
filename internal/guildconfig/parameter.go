package guildconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind enumerates the value types a Parameter accepts from human input.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindChannel
)

// DefaultKeyword in human input restores a parameter's default value.
const DefaultKeyword = "default"

var channelMention = regexp.MustCompile(`^<#(\d+)>$`)

// Parameter describes one leaf of the guild configuration tree: its dotted
// path, default value, accepted kinds, and how human-entered strings are
// coerced, validated, and displayed. The generic settings surfaces (config
// command, dashboard bridge) drive everything through these definitions
// instead of per-field code.
type Parameter struct {
	Path       string
	Default    interface{}
	Kinds      []Kind
	AllowEmpty bool

	// Check validates a coerced value; nil means any coerced value is fine.
	Check func(value interface{}) error
	// Human renders a value for display; nil falls back to fmt.Sprint.
	Human func(value interface{}) string
}

func (p Parameter) allows(kind Kind) bool {
	for _, k := range p.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Coerce turns a human-entered string into the parameter's stored value.
// The "default" keyword restores the default; an empty string becomes nil
// when the parameter allows empty values.
func (p Parameter) Coerce(input string) (interface{}, error) {
	trimmed := strings.TrimSpace(input)

	if strings.EqualFold(trimmed, DefaultKeyword) {
		return p.Default, nil
	}
	if trimmed == "" {
		if p.AllowEmpty {
			return nil, nil
		}
		return nil, errors.New("value must not be empty")
	}

	if p.allows(KindChannel) {
		if m := channelMention.FindStringSubmatch(trimmed); m != nil {
			return m[1], nil
		}
	}
	if p.allows(KindBool) {
		switch strings.ToLower(trimmed) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	if p.allows(KindInt) {
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, nil
		}
	}
	if p.allows(KindString) || p.allows(KindChannel) {
		return trimmed, nil
	}
	return nil, fmt.Errorf("cannot interpret %q for %s", input, p.Path)
}

// Validate runs the parameter's Check against a coerced value.
func (p Parameter) Validate(value interface{}) error {
	if p.Check == nil {
		return nil
	}
	return p.Check(value)
}

// Display renders a stored value for humans.
func (p Parameter) Display(value interface{}) string {
	if p.Human != nil {
		return p.Human(value)
	}
	if value == nil {
		return "(not set)"
	}
	return fmt.Sprint(value)
}
