package mapitem

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"

	"github.com/NerdNu/mapmarkers/pkg/errors"
	"github.com/NerdNu/mapmarkers/pkg/logging"
)

// mapData is the narrow slice of the save format this tool reads.
type mapData struct {
	Dimension string `nbt:"dimension"`
	Scale     int8   `nbt:"scale"`
	XCenter   int32  `nbt:"xCenter"`
	ZCenter   int32  `nbt:"zCenter"`
}

// mapFile is the root compound of a map item save.
type mapFile struct {
	Data mapData `nbt:"data"`
}

// gzipMagic is the two-byte gzip header. Vanilla writes map saves gzipped,
// but uncompressed NBT is accepted too.
var gzipMagic = []byte{0x1f, 0x8b}

// LoadDir reads every map item save directly in dir and returns the records
// whose dimension matches the given one. A file that fails to decode is
// logged and skipped; it never aborts the run. An unreadable directory is
// a fatal error.
func LoadDir(ctx context.Context, dir, dimension string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}

	log := logging.FromContext(ctx)

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := ParseID(entry.Name())
		if !ok {
			// idcounts.dat, scoreboard.dat and friends live in the same directory.
			continue
		}

		path := filepath.Join(dir, entry.Name())
		rec, err := decodeFile(path, id)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable map item")
			continue
		}
		if rec.Dimension != dimension {
			continue
		}
		records = append(records, rec)
	}

	log.Debug().Int("count", len(records)).Str("dimension", dimension).Msg("Loaded map items")
	return records, nil
}

// decodeFile reads one save file and extracts the fields this tool needs.
func decodeFile(path string, id int) (Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, errors.WrapIO("read", path, err)
	}

	if bytes.HasPrefix(raw, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return Record{}, errors.WrapParse("gzip", path, err)
		}
		raw, err = io.ReadAll(zr)
		if err != nil {
			return Record{}, errors.WrapParse("gzip", path, err)
		}
		if err := zr.Close(); err != nil {
			return Record{}, errors.WrapParse("gzip", path, err)
		}
	}

	var mf mapFile
	if err := nbt.Unmarshal(raw, &mf); err != nil {
		return Record{}, errors.WrapParse("nbt", path, err)
	}

	return Record{
		ID:        id,
		Dimension: mf.Data.Dimension,
		Scale:     int(mf.Data.Scale),
		CenterX:   int(mf.Data.XCenter),
		CenterZ:   int(mf.Data.ZCenter),
	}, nil
}
