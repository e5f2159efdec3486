// Package console issues dmarker commands through the server console.
// Commands are forwarded with "mark2 send", one at a time; dynmap applies
// them and persists markers.yml itself.
package console

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/NerdNu/mapmarkers/pkg/errors"
	"github.com/NerdNu/mapmarkers/pkg/logging"
	"github.com/NerdNu/mapmarkers/pkg/reconcile"
)

// DefaultBin is the console forwarding tool.
const DefaultBin = "mark2"

// Runner sends one console command line to the server. The leading '/' is
// omitted, as on the real console.
type Runner interface {
	Run(ctx context.Context, command string) error
}

// Mark2Runner forwards commands with "mark2 send -n <server> <command...>".
type Mark2Runner struct {
	Server string
	Bin    string // defaults to DefaultBin
}

// Run implements Runner.
func (r *Mark2Runner) Run(ctx context.Context, command string) error {
	bin := r.Bin
	if bin == "" {
		bin = DefaultBin
	}
	args := append([]string{"send", "-n", r.Server}, strings.Fields(command)...)

	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil {
		return errors.NewProcessError("console send", bin+" "+strings.Join(args, " "), string(out), err)
	}
	return nil
}

// Emitter turns reconcile operations into dmarker console commands.
type Emitter struct {
	runner Runner
	set    string
	world  string
	icon   string
}

// NewEmitter creates an emitter for the given marker set and world.
func NewEmitter(runner Runner, set, world, icon string) *Emitter {
	return &Emitter{runner: runner, set: set, world: world, icon: icon}
}

// ForceSave asks the server to flush world data to disk so that new map
// files are readable. The caller is responsible for waiting afterwards.
func (e *Emitter) ForceSave(ctx context.Context) error {
	return e.runner.Run(ctx, "save-all")
}

// Delete removes the marker with the given id from the set.
func (e *Emitter) Delete(ctx context.Context, id string) error {
	return e.runner.Run(ctx, fmt.Sprintf("dmarker delete set:%s id:%s", e.set, id))
}

// Add creates a marker from an add operation. The label is set to the id.
func (e *Emitter) Add(ctx context.Context, op reconcile.Op) error {
	return e.runner.Run(ctx, fmt.Sprintf("dmarker add id:%s %s icon:%s set:%s x:%d y:%d z:%d world:%s",
		op.ID, op.Label, e.icon, e.set, op.X, op.Y, op.Z, e.world))
}

// Apply issues each operation in order, waiting for one command to finish
// before starting the next; the store supports no batched updates. A failed
// command is logged and counted but later operations still run. There is no
// retry and no rollback. Returns the number of failed operations.
func (e *Emitter) Apply(ctx context.Context, ops []reconcile.Op) int {
	log := logging.FromContext(ctx)

	failed := 0
	for _, op := range ops {
		var err error
		switch op.Kind {
		case reconcile.OpDelete:
			err = e.Delete(ctx, op.ID)
		case reconcile.OpAdd:
			err = e.Add(ctx, op)
		default:
			err = errors.New("unknown operation kind: " + string(op.Kind))
		}
		if err != nil {
			log.Error().Err(err).Str("id", op.ID).Str("kind", string(op.Kind)).Msg("Marker command failed")
			failed++
			continue
		}
		log.Debug().Str("id", op.ID).Str("kind", string(op.Kind)).Msg("Marker command sent")
	}
	return failed
}
