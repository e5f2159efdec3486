// Package mapitem reads Minecraft map item save files ("map_<n>.dat").
// It exposes only the four fields the reconciler needs, keeping the rest
// of the system isolated from the save format.
package mapitem

import (
	"strconv"
	"strings"
)

const (
	// FilePrefix is the fixed file name prefix of map item saves.
	FilePrefix = "map_"
	// FileExt is the fixed file name extension of map item saves.
	FileExt = ".dat"
)

// Record describes one rendered map item.
type Record struct {
	// ID is the map number, taken from the file name. Unique per map.
	ID int
	// Dimension identifies the dimension the map renders, e.g. "minecraft:overworld".
	Dimension string
	// Scale is the zoom level; a map covers 128<<Scale blocks per side.
	Scale int
	// CenterX and CenterZ are the block coordinates of the render center.
	CenterX int
	CenterZ int
}

// ParseID extracts the numeric map id from a file name like "map_12.dat".
// The id comes from the name, never from file contents.
func ParseID(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, FilePrefix)
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, FileExt)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return id, true
}
