// Package reconcile computes the ordered operations that converge the
// marker store onto the authoritative map set. It produces the plan only;
// applying it is the console package's job.
package reconcile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NerdNu/mapmarkers/pkg/dynmap"
	"github.com/NerdNu/mapmarkers/pkg/mapitem"
)

// OpKind is the kind of a marker operation.
type OpKind string

const (
	// OpDelete removes the marker with the given id.
	OpDelete OpKind = "delete"
	// OpAdd creates a marker at the given position.
	OpAdd OpKind = "add"
)

// Op is a single marker mutation.
type Op struct {
	Kind  OpKind
	ID    string
	Label string // add only; always equals ID
	X     int    // add only
	Y     int    // add only
	Z     int    // add only
}

// Summary holds plan statistics.
type Summary struct {
	Deletes   int
	Adds      int
	Unchanged int
}

// Plan is an ordered operation sequence. For any id, every delete precedes
// the add, so the store never holds two markers with the same id.
type Plan struct {
	Ops     []Op
	Summary Summary
}

// HasChanges reports whether applying the plan would mutate the store.
func (p *Plan) HasChanges() bool {
	return len(p.Ops) > 0
}

// String returns a one-line human-readable summary.
func (p *Plan) String() string {
	if !p.HasChanges() {
		return "No changes"
	}
	var parts []string
	if p.Summary.Deletes > 0 {
		parts = append(parts, fmt.Sprintf("%d to delete", p.Summary.Deletes))
	}
	if p.Summary.Adds > 0 {
		parts = append(parts, fmt.Sprintf("%d to add", p.Summary.Adds))
	}
	parts = append(parts, fmt.Sprintf("%d unchanged", p.Summary.Unchanged))
	return strings.Join(parts, ", ")
}

// Compute diffs the authoritative record set against the current markers and
// returns the minimal ordered plan. Markers whose id has no authoritative
// record are deleted. Markers whose position disagrees with the record are
// deleted and re-created: dmarker has no positional update command, so a
// move is always a delete followed by an add. Exact matches emit nothing,
// which makes back-to-back runs idempotent.
func Compute(authoritative []mapitem.Record, current map[string]dynmap.Marker, markerY int) *Plan {
	desired := make(map[string]mapitem.Record, len(authoritative))
	for _, rec := range authoritative {
		desired[strconv.Itoa(rec.ID)] = rec
	}

	plan := &Plan{}

	// Dangling markers first, in deterministic id order.
	dangling := make([]string, 0, len(current))
	for id := range current {
		if _, ok := desired[id]; !ok {
			dangling = append(dangling, id)
		}
	}
	sortIDs(dangling)
	for _, id := range dangling {
		plan.Ops = append(plan.Ops, Op{Kind: OpDelete, ID: id})
		plan.Summary.Deletes++
	}

	// Authoritative records in ascending id order.
	for _, rec := range authoritative {
		id := strconv.Itoa(rec.ID)
		marker, exists := current[id]
		if exists && matches(marker, rec, markerY) {
			plan.Summary.Unchanged++
			continue
		}
		if exists {
			plan.Ops = append(plan.Ops, Op{Kind: OpDelete, ID: id})
			plan.Summary.Deletes++
		}
		plan.Ops = append(plan.Ops, Op{
			Kind:  OpAdd,
			ID:    id,
			Label: id,
			X:     rec.CenterX,
			Y:     markerY,
			Z:     rec.CenterZ,
		})
		plan.Summary.Adds++
	}

	return plan
}

// matches reports whether a stored marker already is the desired marker.
func matches(marker dynmap.Marker, rec mapitem.Record, markerY int) bool {
	return int(marker.X) == rec.CenterX &&
		int(marker.Y) == markerY &&
		int(marker.Z) == rec.CenterZ
}

// sortIDs orders marker ids numerically where possible so that plan output
// is stable. Managed ids are stringified map numbers.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, aerr := strconv.Atoi(ids[i])
		b, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return ids[i] < ids[j]
	})
}
