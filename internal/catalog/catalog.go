// Package catalog holds the static site data: coverage map sites and speed
// test ground stations.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/aurasat/backend/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// MapView is the initial coverage map viewport.
type MapView struct {
	Center []float64 `json:"center" yaml:"center"`
	Zoom   int       `json:"zoom" yaml:"zoom"`
}

// Catalog is the parsed site data. It is read-only after Parse.
type Catalog struct {
	Map            MapView               `yaml:"map"`
	Coverage       []model.CoverageSite  `yaml:"coverage"`
	GroundStations []model.GroundStation `yaml:"ground_stations"`
}

// Default parses the catalogue compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// Parse decodes and checks a catalogue document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Coverage))
	for _, s := range c.Coverage {
		if s.ID == "" || seen[s.ID] {
			return fmt.Errorf("catalog: coverage site %q has an empty or duplicate id", s.Name)
		}
		seen[s.ID] = true
		switch s.Status {
		case model.CoverageStatusPlanned, model.CoverageStatusTesting, model.CoverageStatusActive:
		default:
			return fmt.Errorf("catalog: coverage site %q has unknown status %q", s.ID, s.Status)
		}
	}
	stations := make(map[string]bool, len(c.GroundStations))
	for _, g := range c.GroundStations {
		if g.ID == "" || stations[g.ID] {
			return fmt.Errorf("catalog: ground station %q has an empty or duplicate id", g.Name)
		}
		stations[g.ID] = true
	}
	return nil
}

// SearchCoverage returns sites whose name contains q, ignoring case. An empty
// query returns every site.
func (c *Catalog) SearchCoverage(q string) []model.CoverageSite {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.CoverageSite, 0, len(c.Coverage))
	for _, s := range c.Coverage {
		if q == "" || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// CoverageSite looks up a site by id.
func (c *Catalog) CoverageSite(id string) (model.CoverageSite, bool) {
	for _, s := range c.Coverage {
		if s.ID == id {
			return s, true
		}
	}
	return model.CoverageSite{}, false
}
