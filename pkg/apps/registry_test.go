package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolk/pveforge/pkg/provision"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"docker", "metabase", "supabase", "vault"}, r.Names())

	for _, name := range r.Names() {
		installer, err := r.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, installer.Name())
		assert.NotEmpty(t, installer.Description())
	}
}

func TestRegistryUnknownName(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Get("postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
	assert.Contains(t, err.Error(), "docker", "the error lists what is available")
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDocker())
	r.Register(NewDocker())

	assert.Equal(t, []string{"docker"}, r.Names())
}

func TestRegistryAllIsSorted(t *testing.T) {
	r := DefaultRegistry()

	all := r.All()
	require.Len(t, all, 4)
	assert.Equal(t, "docker", all[0].Name())
	assert.Equal(t, "vault", all[3].Name())
}

func TestNestingRequirements(t *testing.T) {
	tests := []struct {
		installer provision.Installer
		nesting   bool
	}{
		{NewDocker(), true},
		{NewSupabase(), true},
		{NewMetabase(), false},
		{NewVault(), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.nesting, tt.installer.NeedsNesting(),
			"%s nesting requirement", tt.installer.Name())
	}
}

func TestAccessNotesHandleUnknownAddress(t *testing.T) {
	guest := &provision.Guest{ID: 100, Address: provision.UnknownAddress}

	for _, installer := range DefaultRegistry().All() {
		notes := installer.AccessNotes(guest)
		assert.NotEmpty(t, notes, "%s access notes", installer.Name())
		for _, note := range notes {
			assert.NotContains(t, note, "http://unknown",
				"%s must not print a URL with a bogus host", installer.Name())
		}
	}
}
