// Package mapmarkers reconciles dynmap pin markers against Minecraft map
// item save files. For every render region it keeps one marker, named after
// the highest map id rendering that region, and converges the marker store
// by issuing dmarker console commands through mark2.
package mapmarkers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/NerdNu/mapmarkers/pkg/console"
	"github.com/NerdNu/mapmarkers/pkg/errors"
	"github.com/NerdNu/mapmarkers/pkg/logging"
)

const (
	// DefaultMarkerY is the Y coordinate markers are created at. Map items
	// carry no Y, so a fixed sea-level height is used.
	DefaultMarkerY = 64

	// DefaultIcon is the dynmap icon for map markers.
	DefaultIcon = "pin"

	// DefaultSaveWait is how long to wait after save-all for map files to
	// reach disk before reading them.
	DefaultSaveWait = 5 * time.Second
)

// Syncer reconciles one world's markers in one marker set.
type Syncer struct {
	server      string
	world       string
	mapsDir     string
	markersFile string
	markerSet   string

	dimension string
	markerY   int
	icon      string
	saveWait  time.Duration
	dryRun    bool

	runner console.Runner
	logger *zerolog.Logger
}

// New creates a Syncer. Server, world, maps directory, markers file and
// marker set are required; everything else has defaults matching how the
// game and dynmap are deployed.
func New(opts ...Option) (*Syncer, error) {
	s := &Syncer{
		markerY:  DefaultMarkerY,
		icon:     DefaultIcon,
		saveWait: DefaultSaveWait,
		logger:   logging.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.world == "" {
		return nil, errors.NewConfigError("syncer", "world is required", nil)
	}
	if s.mapsDir == "" {
		return nil, errors.NewConfigError("syncer", "maps directory is required", nil)
	}
	if s.markersFile == "" {
		return nil, errors.NewConfigError("syncer", "markers file is required", nil)
	}
	if s.markerSet == "" {
		return nil, errors.NewConfigError("syncer", "marker set is required", nil)
	}
	if s.runner == nil {
		if s.server == "" {
			return nil, errors.NewConfigError("syncer", "server is required", nil)
		}
		s.runner = &console.Mark2Runner{Server: s.server}
	}

	// Vanilla names dimensions "minecraft:<world>"; custom dimensions can
	// override this with WithDimension.
	if s.dimension == "" {
		s.dimension = "minecraft:" + s.world
	}

	return s, nil
}
