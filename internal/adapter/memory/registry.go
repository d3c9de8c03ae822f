// Package memory provides in-process implementations of the asset registry
// and alert ledger for local runs and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// Seed is the on-disk layout of an assets file.
type Seed struct {
	Forests   []SeedForest   `json:"forests"`
	Adoptions []SeedAdoption `json:"adoptions"`
}

type SeedForest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SeedAdoption struct {
	ForestID      string `json:"forest_id"`
	GuardianName  string `json:"guardian_name"`
	GuardianEmail string `json:"guardian_email"`
	IsActive      bool   `json:"is_active"`
}

// Registry implements domain.AssetRegistry over a fixed set of forests and
// adoptions. It is immutable after construction.
type Registry struct {
	forests   map[string]domain.Forest
	adoptions []SeedAdoption
}

// NewRegistry validates the seed and indexes its forests. Adoptions that
// reference an unknown forest are rejected.
func NewRegistry(seed Seed) (*Registry, error) {
	r := &Registry{forests: make(map[string]domain.Forest, len(seed.Forests))}
	for _, f := range seed.Forests {
		if f.ID == "" {
			return nil, fmt.Errorf("seed forest %q: missing id", f.Name)
		}
		if _, dup := r.forests[f.ID]; dup {
			return nil, fmt.Errorf("seed forest %s: duplicate id", f.ID)
		}
		loc := domain.GeoPoint{Lat: f.Latitude, Lon: f.Longitude}
		if !loc.Valid() {
			return nil, fmt.Errorf("seed forest %s: coordinates out of range", f.ID)
		}
		r.forests[f.ID] = domain.Forest{ID: f.ID, Name: f.Name, Location: loc}
	}
	for _, a := range seed.Adoptions {
		if _, ok := r.forests[a.ForestID]; !ok {
			return nil, fmt.Errorf("seed adoption for %s: %w", a.ForestID, domain.ErrForestNotFound)
		}
	}
	r.adoptions = append([]SeedAdoption(nil), seed.Adoptions...)
	return r, nil
}

// LoadRegistry reads a JSON seed from r.
func LoadRegistry(r io.Reader) (*Registry, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode assets seed: %w", err)
	}
	return NewRegistry(seed)
}

// LoadRegistryFile reads a JSON seed from path.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open assets file: %w", err)
	}
	defer f.Close()
	return LoadRegistry(f)
}

func (r *Registry) GetForest(_ context.Context, id string) (domain.Forest, error) {
	f, ok := r.forests[id]
	if !ok {
		return domain.Forest{}, domain.ErrForestNotFound
	}
	return f, nil
}

// ListMonitored returns active adoptions in seed order.
func (r *Registry) ListMonitored(_ context.Context) ([]domain.MonitoredAsset, error) {
	var assets []domain.MonitoredAsset
	for _, a := range r.adoptions {
		if !a.IsActive {
			continue
		}
		assets = append(assets, domain.MonitoredAsset{
			Forest:          r.forests[a.ForestID],
			GuardianName:    a.GuardianName,
			GuardianContact: a.GuardianEmail,
		})
	}
	return assets, nil
}

// Forests returns every registered forest ordered by ID.
func (r *Registry) Forests() []domain.Forest {
	out := make([]domain.Forest, 0, len(r.forests))
	for _, f := range r.forests {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
