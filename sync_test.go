package mapmarkers_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NerdNu/mapmarkers"
	"github.com/NerdNu/mapmarkers/pkg/logging"
)

type testMapData struct {
	Dimension string `nbt:"dimension"`
	Scale     int8   `nbt:"scale"`
	XCenter   int32  `nbt:"xCenter"`
	ZCenter   int32  `nbt:"zCenter"`
}

type testMapFile struct {
	Data testMapData `nbt:"data"`
}

func writeMapFile(t *testing.T, dir string, id int, dimension string, scale int8, x, z int32) {
	t.Helper()

	payload, err := nbt.Marshal(testMapFile{Data: testMapData{
		Dimension: dimension,
		Scale:     scale,
		XCenter:   x,
		ZCenter:   z,
	}})
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("map_%d.dat", id)), buf.Bytes(), 0o644))
}

func writeMarkersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "markers.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// recordingRunner captures console commands instead of invoking mark2.
type recordingRunner struct {
	commands []string
}

func (r *recordingRunner) Run(_ context.Context, command string) error {
	r.commands = append(r.commands, command)
	return nil
}

func newTestSyncer(t *testing.T, runner *recordingRunner, mapsDir, markersFile string, extra ...mapmarkers.Option) *mapmarkers.Syncer {
	t.Helper()

	opts := []mapmarkers.Option{
		mapmarkers.WithWorld("world"),
		mapmarkers.WithMapsDir(mapsDir),
		mapmarkers.WithMarkersFile(markersFile),
		mapmarkers.WithMarkerSet("markers"),
		mapmarkers.WithSaveWait(0),
		mapmarkers.WithRunner(runner),
		mapmarkers.WithLogger(logging.NewNopLogger()),
	}
	opts = append(opts, extra...)

	syncer, err := mapmarkers.New(opts...)
	require.NoError(t, err)
	return syncer
}

func TestSyncConvergesSupersededMap(t *testing.T) {
	mapsDir := t.TempDir()
	// Maps 3 and 7 both render the region around (64, 64); 7 is authoritative.
	writeMapFile(t, mapsDir, 3, "minecraft:world", 0, 64, 64)
	writeMapFile(t, mapsDir, 7, "minecraft:world", 0, 64, 64)

	markersFile := writeMarkersFile(t, `sets:
  markers:
    markers:
      "3":
        world: world
        x: 64.0
        y: 64.0
        z: 64.0
        label: "3"
        icon: pin
`)

	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, mapsDir, markersFile)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 1, result.Regions)
	assert.Equal(t, 1, result.Markers)
	assert.True(t, result.Applied)
	assert.Zero(t, result.Failed)

	require.Equal(t, []string{
		"save-all",
		"dmarker delete set:markers id:3",
		"dmarker add id:7 7 icon:pin set:markers x:64 y:64 z:64 world:world",
	}, runner.commands)
}

func TestSyncIdempotent(t *testing.T) {
	mapsDir := t.TempDir()
	writeMapFile(t, mapsDir, 5, "minecraft:world", 0, 64, 64)

	markersFile := writeMarkersFile(t, `sets:
  markers:
    markers:
      "5":
        world: world
        x: 64.0
        y: 64.0
        z: 64.0
        label: "5"
        icon: pin
`)

	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, mapsDir, markersFile)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	// Nothing to converge: only the save command goes out.
	assert.False(t, result.Plan.HasChanges())
	assert.Equal(t, []string{"save-all"}, runner.commands)
}

func TestSyncDryRun(t *testing.T) {
	mapsDir := t.TempDir()
	writeMapFile(t, mapsDir, 5, "minecraft:world", 0, 64, 64)

	markersFile := writeMarkersFile(t, "sets: {}\n")

	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, mapsDir, markersFile, mapmarkers.WithDryRun(true))

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Plan.HasChanges())
	assert.False(t, result.Applied)
	// Dry runs send nothing, not even save-all.
	assert.Empty(t, runner.commands)
}

func TestSyncWrongDimensionExcluded(t *testing.T) {
	mapsDir := t.TempDir()
	writeMapFile(t, mapsDir, 1, "minecraft:world", 0, 64, 64)
	writeMapFile(t, mapsDir, 2, "minecraft:world_nether", 0, 64, 64)

	markersFile := writeMarkersFile(t, "sets: {}\n")

	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, mapsDir, markersFile)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Records)
	require.Len(t, runner.commands, 2) // save-all + one add
	assert.Contains(t, runner.commands[1], "dmarker add id:1")
}

func TestSyncCorruptMapFileNonFatal(t *testing.T) {
	mapsDir := t.TempDir()
	writeMapFile(t, mapsDir, 1, "minecraft:world", 0, 0, 0)
	writeMapFile(t, mapsDir, 2, "minecraft:world", 0, 200, 0)
	require.NoError(t, os.WriteFile(filepath.Join(mapsDir, "map_3.dat"), []byte("garbage"), 0o644))

	markersFile := writeMarkersFile(t, "sets: {}\n")

	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, mapsDir, markersFile)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 2, result.Plan.Summary.Adds)
}

func TestSyncMissingMarkersFileFatal(t *testing.T) {
	mapsDir := t.TempDir()
	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, mapsDir, filepath.Join(t.TempDir(), "missing.yml"))

	_, err := syncer.Sync(context.Background())

	require.Error(t, err)
	// Fatal before any command is issued, including save-all.
	assert.Empty(t, runner.commands)
}

func TestSyncMissingMapsDirFatal(t *testing.T) {
	markersFile := writeMarkersFile(t, "sets: {}\n")
	runner := &recordingRunner{}
	syncer := newTestSyncer(t, runner, filepath.Join(t.TempDir(), "missing"), markersFile)

	_, err := syncer.Sync(context.Background())

	require.Error(t, err)
	assert.Empty(t, runner.commands)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []mapmarkers.Option
	}{
		{name: "missing world", opts: []mapmarkers.Option{
			mapmarkers.WithMapsDir("/tmp/maps"),
			mapmarkers.WithMarkersFile("/tmp/markers.yml"),
			mapmarkers.WithMarkerSet("markers"),
			mapmarkers.WithServer("pve"),
		}},
		{name: "missing server and runner", opts: []mapmarkers.Option{
			mapmarkers.WithWorld("world"),
			mapmarkers.WithMapsDir("/tmp/maps"),
			mapmarkers.WithMarkersFile("/tmp/markers.yml"),
			mapmarkers.WithMarkerSet("markers"),
		}},
		{name: "missing marker set", opts: []mapmarkers.Option{
			mapmarkers.WithWorld("world"),
			mapmarkers.WithMapsDir("/tmp/maps"),
			mapmarkers.WithMarkersFile("/tmp/markers.yml"),
			mapmarkers.WithServer("pve"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapmarkers.New(tt.opts...)
			assert.Error(t, err)
		})
	}
}
