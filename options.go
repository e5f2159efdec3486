package mapmarkers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/NerdNu/mapmarkers/pkg/console"
	"github.com/NerdNu/mapmarkers/pkg/errors"
)

// Option is a function that configures a Syncer
type Option func(*Syncer) error

// WithServer sets the mark2 server name commands are sent to.
func WithServer(server string) Option {
	return func(s *Syncer) error {
		s.server = server
		return nil
	}
}

// WithWorld sets the world whose markers are managed.
func WithWorld(world string) Option {
	return func(s *Syncer) error {
		s.world = world
		return nil
	}
}

// WithMapsDir sets the directory containing map_<n>.dat files,
// e.g. "/servers/pve/worlds/world/data".
func WithMapsDir(dir string) Option {
	return func(s *Syncer) error {
		s.mapsDir = dir
		return nil
	}
}

// WithMarkersFile sets the path to dynmap's markers.yml.
func WithMarkersFile(path string) Option {
	return func(s *Syncer) error {
		s.markersFile = path
		return nil
	}
}

// WithMarkerSet sets the marker set to manage, usually "markers".
func WithMarkerSet(set string) Option {
	return func(s *Syncer) error {
		s.markerSet = set
		return nil
	}
}

// WithDimension overrides the dimension map items must match.
// Defaults to "minecraft:<world>".
func WithDimension(dimension string) Option {
	return func(s *Syncer) error {
		s.dimension = dimension
		return nil
	}
}

// WithMarkerY sets the Y coordinate markers are created at.
func WithMarkerY(y int) Option {
	return func(s *Syncer) error {
		s.markerY = y
		return nil
	}
}

// WithIcon sets the dynmap icon for created markers.
func WithIcon(icon string) Option {
	return func(s *Syncer) error {
		if icon == "" {
			return errors.NewConfigError("syncer", "icon must not be empty", nil)
		}
		s.icon = icon
		return nil
	}
}

// WithSaveWait sets how long to wait after save-all before reading map files.
func WithSaveWait(wait time.Duration) Option {
	return func(s *Syncer) error {
		if wait < 0 {
			return errors.NewConfigError("syncer", "save wait must not be negative", nil)
		}
		s.saveWait = wait
		return nil
	}
}

// WithDryRun computes the plan without saving the world or sending commands.
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) error {
		s.dryRun = dryRun
		return nil
	}
}

// WithRunner replaces the console command runner. Tests use this to capture
// commands instead of invoking mark2.
func WithRunner(runner console.Runner) Option {
	return func(s *Syncer) error {
		s.runner = runner
		return nil
	}
}

// WithLogger sets the logger used for the run.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Syncer) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}
