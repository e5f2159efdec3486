package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NerdNu/mapmarkers"
	"github.com/NerdNu/mapmarkers/pkg/reconcile"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New("test", "none", "now")
	require.NoError(t, err)
	return a
}

func TestAppNew(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, "test", a.Version())
	assert.NotNil(t, a.Config())
	assert.NotNil(t, a.Logger())
	assert.Equal(t, mapmarkers.DefaultMarkerY, a.Config().MarkerY)
	assert.Equal(t, mapmarkers.DefaultIcon, a.Config().Icon)
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t)

	root := a.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "mapmarkers test")
}

func TestSyncCommandRequiresFiveArgs(t *testing.T) {
	a := newTestApp(t)

	root := a.createRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"sync", "pve", "world"})

	err := root.ExecuteContext(context.Background())
	assert.Error(t, err)
}

func TestPrintPlan(t *testing.T) {
	plan := &reconcile.Plan{
		Ops: []reconcile.Op{
			{Kind: reconcile.OpDelete, ID: "3"},
			{Kind: reconcile.OpAdd, ID: "7", Label: "7", X: 64, Y: 64, Z: 64},
		},
		Summary: reconcile.Summary{Deletes: 1, Adds: 1},
	}

	var out bytes.Buffer
	printPlan(&out, plan)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Delete 3", lines[0])
	assert.Equal(t, "Add 7 at (64, 64, 64)", lines[1])
	assert.Equal(t, "1 to delete, 1 to add, 0 unchanged", lines[2])
}
