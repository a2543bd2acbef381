// Package institutions keeps the set of issuers a credential backend knows
// about and whether each may issue.
package institutions

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"gopkg.in/yaml.v3"

	"credhub/internal/credential/models"
	dErrors "credhub/pkg/domain-errors"
)

// SuggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const SuggestThreshold = 0.85

// Registry is safe for concurrent use. Names match case-insensitively after
// trimming; the first spelling registered is the one reported.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[string]*models.Institution
	order  []string
	metric *metrics.JaroWinkler
}

// DefaultInstitutions is the fixed list used by the mock backend.
func DefaultInstitutions() []models.Institution {
	return []models.Institution{
		{Name: "MIT"},
		{Name: "Stanford University"},
		{Name: "University of Toronto"},
		{Name: "ETH Zurich"},
	}
}

func NewRegistry(institutions ...models.Institution) *Registry {
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false
	r := &Registry{
		byKey:  make(map[string]*models.Institution, len(institutions)),
		metric: jw,
	}
	for _, inst := range institutions {
		r.add(inst)
	}
	return r
}

type seedFile struct {
	Institutions []models.Institution `yaml:"institutions"`
}

// Load reads a YAML seed file of the form
//
//	institutions:
//	  - name: MIT
//	    authorized: true
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read institutions file: %w", err)
	}
	return Parse(data)
}

// Parse is Load over in-memory YAML.
func Parse(data []byte) (*Registry, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse institutions: %w", err)
	}
	for i, inst := range seed.Institutions {
		if strings.TrimSpace(inst.Name) == "" {
			return nil, fmt.Errorf("parse institutions: entry %d has no name", i+1)
		}
	}
	return NewRegistry(seed.Institutions...), nil
}

func (r *Registry) add(inst models.Institution) {
	inst.Name = strings.TrimSpace(inst.Name)
	k := key(inst.Name)
	if existing, ok := r.byKey[k]; ok {
		existing.Authorized = existing.Authorized || inst.Authorized
		return
	}
	r.byKey[k] = &inst
	r.order = append(r.order, k)
}

// Lookup returns a copy of the named institution.
func (r *Registry) Lookup(name string) (models.Institution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.byKey[key(name)]
	if !ok {
		return models.Institution{}, false
	}
	return *inst, true
}

// Authorize marks a known institution authorized. Unknown names fail with a
// not_found error that names the closest known institution, if any.
func (r *Registry) Authorize(name string) error {
	r.mu.Lock()
	inst, ok := r.byKey[key(name)]
	if ok {
		inst.Authorized = true
	}
	r.mu.Unlock()

	if ok {
		return nil
	}
	return r.unknown(name)
}

// Suggest returns the known name most similar to name when the similarity
// reaches SuggestThreshold.
func (r *Registry) Suggest(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	best, bestScore := "", 0.0
	for _, k := range r.order {
		candidate := r.byKey[k].Name
		if score := strutil.Similarity(name, candidate, r.metric); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < SuggestThreshold {
		return "", false
	}
	return best, true
}

// List returns every institution in registration order.
func (r *Registry) List() []models.Institution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Institution, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, *r.byKey[k])
	}
	return out
}

func (r *Registry) unknown(name string) error {
	msg := fmt.Sprintf("institution %q is not known", strings.TrimSpace(name))
	if suggestion, ok := r.Suggest(name); ok {
		msg += fmt.Sprintf("; did you mean %q?", suggestion)
	}
	return dErrors.New(dErrors.CodeNotFound, msg)
}

// ErrUnknown builds the not_found error returned for an unknown institution.
func (r *Registry) ErrUnknown(name string) error {
	return r.unknown(name)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
