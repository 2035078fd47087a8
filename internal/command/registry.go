package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands. Registration
// happens once at boot; lookups are case-insensitive.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a canonical command and forwarding wrappers for its
// aliases. Duplicate names or aliases are rejected.
func (r *Registry) Register(cmd *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, name := range names {
		if _, exists := r.commands[strings.ToLower(name)]; exists {
			return fmt.Errorf("command %q already registered", name)
		}
	}

	r.commands[strings.ToLower(cmd.Name)] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[strings.ToLower(alias)] = aliasOf(cmd, alias)
	}
	return nil
}

// aliasOf builds a thin wrapper whose handler forwards to the canonical
// command. Gate-relevant fields are mirrored so the dispatcher treats an
// alias exactly like its canonical command.
func aliasOf(canonical *Command, name string) *Command {
	return &Command{
		Name:       name,
		Permission: canonical.Permission,
		Scope:      canonical.Scope,
		Category:   canonical.Category,
		Cooldown:   canonical.Cooldown,
		Season:     canonical.Season,
		Run: func(ctx *Context) error {
			return canonical.Run(ctx)
		},
		canonical: canonical,
	}
}

// Lookup resolves a name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// All returns the canonical commands sorted by name.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*Command
	for _, cmd := range r.commands {
		if cmd.IsAlias() {
			continue
		}
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
