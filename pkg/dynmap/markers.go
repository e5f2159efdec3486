// Package dynmap reads the dynmap markers.yml configuration file.
//
// This package never writes that file. Dynmap cannot safely hot-reload
// markers.yml, so all mutation goes through console commands (see the
// console package). Keeping the reader narrow also isolates the rest of
// the tool from the plugin's file layout.
package dynmap

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/NerdNu/mapmarkers/pkg/errors"
)

// Marker is one point marker as stored by dynmap.
type Marker struct {
	World string  `yaml:"world"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Label string  `yaml:"label"`
	Icon  string  `yaml:"icon"`
}

// markerSet is one named collection of markers.
type markerSet struct {
	Label   string            `yaml:"label"`
	Markers map[string]Marker `yaml:"markers"`
}

// markersFile is the subset of markers.yml this tool reads.
type markersFile struct {
	Sets map[string]markerSet `yaml:"sets"`
}

// LoadSet parses the markers file and returns the managed markers of the
// given set and world, keyed by marker id. Managed means the marker's label
// equals its id; hand-placed markers in the same set never match that and
// are left alone. A missing set or a set with no markers in the world is an
// empty map, not an error. A missing or malformed file is fatal: without a
// trustworthy snapshot no safe reconciliation is possible.
func LoadSet(path, set, world string) (map[string]Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var mf markersFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if mf.Sets == nil {
		return nil, errors.NewParseError("yaml", path, "missing top-level sets mapping; not a dynmap markers file", nil)
	}

	result := make(map[string]Marker)
	for id, marker := range mf.Sets[set].Markers {
		if marker.World == world && marker.Label == id {
			result[id] = marker
		}
	}
	return result, nil
}
