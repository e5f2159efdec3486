// Package region derives render regions from map records and selects the
// authoritative map per region. Everything here is pure integer math so it
// can be tested independently of file I/O.
package region

import (
	"sort"

	"github.com/NerdNu/mapmarkers/pkg/mapitem"
)

// BaseMapSize is the side length in blocks of an unzoomed (scale 0) map.
const BaseMapSize = 128

// Key identifies the square render region a map's center falls into.
// Two maps with the same key render the same area of the world.
type Key struct {
	Dimension string
	X         int
	Z         int
	Scale     int
}

// SideLength returns the side length in blocks of a region at the given scale.
func SideLength(scale int) int {
	return BaseMapSize << scale
}

// KeyFor computes the region key for a map record. Region coordinates are
// the center coordinates floored to the region grid.
func KeyFor(rec mapitem.Record) Key {
	side := SideLength(rec.Scale)
	return Key{
		Dimension: rec.Dimension,
		X:         floorDiv(rec.CenterX, side),
		Z:         floorDiv(rec.CenterZ, side),
		Scale:     rec.Scale,
	}
}

// Resolve groups records by region and keeps the record with the highest id
// per region. Ids are unique, so no further tie-break exists. The result is
// sorted by id ascending to make downstream diffing deterministic.
func Resolve(records []mapitem.Record) []mapitem.Record {
	best := make(map[Key]mapitem.Record, len(records))
	for _, rec := range records {
		key := KeyFor(rec)
		if cur, ok := best[key]; !ok || rec.ID > cur.ID {
			best[key] = rec
		}
	}

	resolved := make([]mapitem.Record, 0, len(best))
	for _, rec := range best {
		resolved = append(resolved, rec)
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].ID < resolved[j].ID
	})
	return resolved
}

// floorDiv divides a by b rounding toward negative infinity. Go's integer
// division truncates toward zero, which is wrong for negative coordinates.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
