// Package apps contains the application installers that run inside a
// freshly provisioned guest.
package apps

import (
	"fmt"
	"sort"

	"github.com/hostfolk/pveforge/pkg/provision"
)

// Registry maps installer names to implementations. Installers are
// registered explicitly; there is no symbol scanning.
type Registry struct {
	installers map[string]provision.Installer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{installers: make(map[string]provision.Installer)}
}

// DefaultRegistry returns a registry with all built-in installers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewDocker())
	r.Register(NewMetabase())
	r.Register(NewVault())
	r.Register(NewSupabase())
	return r
}

// Register adds an installer. A duplicate name replaces the previous
// registration.
func (r *Registry) Register(i provision.Installer) {
	r.installers[i.Name()] = i
}

// Get returns the installer for name.
func (r *Registry) Get(name string) (provision.Installer, error) {
	i, ok := r.installers[name]
	if !ok {
		return nil, fmt.Errorf("unknown application %q (available: %v)", name, r.Names())
	}
	return i, nil
}

// Names returns the registered installer names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.installers))
	for name := range r.installers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered installers in name order.
func (r *Registry) All() []provision.Installer {
	all := make([]provision.Installer, 0, len(r.installers))
	for _, name := range r.Names() {
		all = append(all, r.installers[name])
	}
	return all
}
