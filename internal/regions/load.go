package regions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed regions.json
var embeddedTable []byte

// tableFile is the on-disk / embedded representation of the table.
type tableFile struct {
	Version       string  `json:"version"`
	DefaultRegion string  `json:"default_region"`
	Regions       []Entry `json:"regions"`
}

// Load returns the regional feature table compiled into the binary.
func Load() (*Table, error) {
	return parse(embeddedTable)
}

// LoadFile reads a curated table override from disk. Used when operators ship
// an updated table without rebuilding the service.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region table %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse region table: %w", err)
	}
	if len(tf.Regions) == 0 {
		return nil, fmt.Errorf("region table is empty")
	}

	t := &Table{
		entries:       tf.Regions,
		byName:        make(map[string]*Entry, len(tf.Regions)),
		defaultRegion: strings.ToLower(tf.DefaultRegion),
		version:       tf.Version,
	}

	for i := range t.entries {
		e := &t.entries[i]
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			return nil, fmt.Errorf("region table entry %d has no name", i)
		}
		if _, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("duplicate region name %q", e.Name)
		}
		if e.MinLat > e.MaxLat || e.MinLon > e.MaxLon {
			return nil, fmt.Errorf("region %q has an inverted bounding box", e.Name)
		}
		if verr := e.Features.Validate(); verr != nil {
			return nil, fmt.Errorf("region %q features invalid: %w", e.Name, verr)
		}
		// Tokens are matched lowercase; normalize once at load.
		for j, tok := range e.Tokens {
			e.Tokens[j] = strings.ToLower(strings.TrimSpace(tok))
		}
		t.byName[key] = e
	}

	if _, ok := t.byName[t.defaultRegion]; !ok {
		return nil, fmt.Errorf("default region %q not present in table", tf.DefaultRegion)
	}

	return t, nil
}
