package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NerdNu/mapmarkers"
	"github.com/NerdNu/mapmarkers/pkg/console"
	"github.com/NerdNu/mapmarkers/pkg/reconcile"
)

// Execute runs the mapmarkers CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mapmarkers",
		Short:   "Reconcile dynmap markers with Minecraft map items",
		Version: a.version,
		Long: `Mapmarkers keeps one dynmap marker per rendered map region, named after
the map number. It reads the world's map_<n>.dat files, picks the highest
map id per render region, compares against the dynmap marker set and
converges it by sending dmarker commands through "mark2 send".

It is designed to run unattended from cron; runs with nothing to do send
no commands at all.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("mapmarkers {{.Version}}\n")

	rootCmd.AddCommand(a.newSyncCommand())
	rootCmd.AddCommand(a.newPlanCommand())
	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	// Reinitialize logger with flag-updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// newSyncCommand creates the sync command, the tool's main operation.
func (a *App) newSyncCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync <server> <world> <maps-dir> <markers-file> <marker-set>",
		Short: "Reconcile markers and send the converging console commands",
		Long: `Sync forces a world save, waits for map files to reach disk, then
reconciles the marker set against the map items and sends one dmarker
command per required change.

<maps-dir> is the world data directory containing map_<n>.dat files,
e.g. "/servers/pve/worlds/world/data". <markers-file> is dynmap's
markers.yml, e.g. "/servers/pve/plugins/dynmap/markers.yml".`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := []mapmarkers.Option{
				mapmarkers.WithServer(args[0]),
				mapmarkers.WithDryRun(dryRun),
			}
			if a.config.Mark2Bin != "" {
				extra = append(extra, mapmarkers.WithRunner(&console.Mark2Runner{
					Server: args[0],
					Bin:    a.config.Mark2Bin,
				}))
			}

			syncer, err := a.newSyncer(args[1], args[2], args[3], args[4], extra...)
			if err != nil {
				return err
			}

			result, err := syncer.Sync(cmd.Context())
			if err != nil {
				return err
			}
			if dryRun {
				printPlan(cmd.OutOrStdout(), result.Plan)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and print the plan without saving or sending commands")
	a.addSyncFlags(cmd)
	return cmd
}

// newPlanCommand creates the plan command: a dry run that needs no server,
// for inspecting what sync would do.
func (a *App) newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <world> <maps-dir> <markers-file> <marker-set>",
		Short: "Print the operations sync would perform, without sending them",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer, err := a.newSyncer(args[0], args[1], args[2], args[3],
				mapmarkers.WithDryRun(true),
				// Plan never talks to a server; a runner is still required.
				mapmarkers.WithRunner(noopRunner{}),
			)
			if err != nil {
				return err
			}

			result, err := syncer.Sync(cmd.Context())
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), result.Plan)
			return nil
		},
	}

	a.addSyncFlags(cmd)
	return cmd
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mapmarkers %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// addSyncFlags registers the reconciliation tuning flags shared by sync and
// plan, defaulted from config/env.
func (a *App) addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.config.Dimension, "dimension", a.config.Dimension, `dimension map items must match (default "minecraft:<world>")`)
	cmd.Flags().IntVar(&a.config.MarkerY, "marker-y", a.config.MarkerY, "Y coordinate markers are created at")
	cmd.Flags().StringVar(&a.config.Icon, "icon", a.config.Icon, "dynmap icon for created markers")
	cmd.Flags().DurationVar(&a.config.SaveWait, "save-wait", a.config.SaveWait, "delay after save-all before reading map files")
	cmd.Flags().StringVar(&a.config.Mark2Bin, "mark2", a.config.Mark2Bin, "mark2 binary to forward console commands with")
}

// newSyncer builds a Syncer from positional arguments plus config defaults.
func (a *App) newSyncer(world, mapsDir, markersFile, markerSet string, extra ...mapmarkers.Option) (*mapmarkers.Syncer, error) {
	opts := []mapmarkers.Option{
		mapmarkers.WithWorld(world),
		mapmarkers.WithMapsDir(mapsDir),
		mapmarkers.WithMarkersFile(markersFile),
		mapmarkers.WithMarkerSet(markerSet),
		mapmarkers.WithMarkerY(a.config.MarkerY),
		mapmarkers.WithIcon(a.config.Icon),
		mapmarkers.WithSaveWait(a.config.SaveWait),
		mapmarkers.WithLogger(a.logger),
	}
	if a.config.Dimension != "" {
		opts = append(opts, mapmarkers.WithDimension(a.config.Dimension))
	}
	opts = append(opts, extra...)
	return mapmarkers.New(opts...)
}

// printPlan writes a human-readable operation listing.
func printPlan(w io.Writer, plan *reconcile.Plan) {
	caser := cases.Title(language.English)
	for _, op := range plan.Ops {
		switch op.Kind {
		case reconcile.OpAdd:
			fmt.Fprintf(w, "%s %s at (%d, %d, %d)\n", caser.String(string(op.Kind)), op.ID, op.X, op.Y, op.Z)
		default:
			fmt.Fprintf(w, "%s %s\n", caser.String(string(op.Kind)), op.ID)
		}
	}
	fmt.Fprintln(w, plan.String())
}

// noopRunner satisfies console.Runner for plan-only invocations. Dry runs
// never call it.
type noopRunner struct{}

func (noopRunner) Run(context.Context, string) error { return nil }

// Compile-time interface check
var _ console.Runner = noopRunner{}
