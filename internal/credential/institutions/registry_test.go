package institutions

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credhub/internal/credential/models"
	dErrors "credhub/pkg/domain-errors"
)

func TestRegistry(t *testing.T) {
	t.Run("authorize known institution", func(t *testing.T) {
		r := NewRegistry(DefaultInstitutions()...)

		require.NoError(t, r.Authorize("  eth zurich "))

		inst, ok := r.Lookup("ETH Zurich")
		require.True(t, ok)
		assert.True(t, inst.Authorized)
		assert.Equal(t, "ETH Zurich", inst.Name)
	})

	t.Run("unknown institution suggests the closest name", func(t *testing.T) {
		r := NewRegistry(DefaultInstitutions()...)

		err := r.Authorize("Stanford Universty")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.Contains(t, err.Error(), `did you mean "Stanford University"?`)
	})

	t.Run("unrelated name gets no suggestion", func(t *testing.T) {
		r := NewRegistry(DefaultInstitutions()...)

		err := r.Authorize("Hogwarts")
		require.Error(t, err)
		assert.Equal(t, `institution "Hogwarts" is not known`, err.Error())
	})

	t.Run("list preserves registration order and merges duplicates", func(t *testing.T) {
		r := NewRegistry(
			models.Institution{Name: "MIT"},
			models.Institution{Name: "ETH Zurich", Authorized: true},
			models.Institution{Name: "mit", Authorized: true},
		)
		assert.Equal(t, []models.Institution{
			{Name: "MIT", Authorized: true},
			{Name: "ETH Zurich", Authorized: true},
		}, r.List())
	})

	t.Run("concurrent authorization", func(t *testing.T) {
		r := NewRegistry(DefaultInstitutions()...)
		var wg sync.WaitGroup
		for _, inst := range DefaultInstitutions() {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				_ = r.Authorize(name)
				_, _ = r.Lookup(name)
			}(inst.Name)
		}
		wg.Wait()
		for _, inst := range r.List() {
			assert.True(t, inst.Authorized, inst.Name)
		}
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "institutions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
institutions:
  - name: MIT
    authorized: true
  - name: University of Toronto
`), 0o600))

	r, err := Load(path)
	require.NoError(t, err)

	mit, ok := r.Lookup("MIT")
	require.True(t, ok)
	assert.True(t, mit.Authorized)
	toronto, ok := r.Lookup("University of Toronto")
	require.True(t, ok)
	assert.False(t, toronto.Authorized)

	_, err = Parse([]byte("institutions:\n  - authorized: true\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
