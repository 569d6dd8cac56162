package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "waypointctl",
		Short: "Build, inspect and exercise bot waypoint graphs",
		Long: `waypointctl works on the per-level waypoint files bots navigate by.
It can seed a graph from a level's objects, clean and inspect saved graphs,
query routes and run a headless bot simulation against a graph.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().String("level", "arena", "level name or path to a level .json")
	rootCmd.PersistentFlags().String("config", "", "navigation config YAML (defaults built in)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header and node statistics of a waypoint file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	seedCmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Seed a graph from the level's items, respawns and jump pads and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}
	seedCmd.Flags().String("author", "", "author recorded in the file header")
	seedCmd.Flags().Bool("compress", false, "store quantized positions")

	cleanCmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Drop nodes in liquid, compact indices and prune blocked links",
		Args:  cobra.ExactArgs(1),
		RunE:  runClean,
	}
	cleanCmd.Flags().Bool("dry-run", false, "report without saving")
	cleanCmd.Flags().String("author", "", "author recorded in the file header")

	routeCmd := &cobra.Command{
		Use:   "route <file> <from> <to>",
		Short: "Find the shortest route between two nodes",
		Args:  cobra.ExactArgs(3),
		RunE:  runRoute,
	}
	routeCmd.Flags().IntSlice("avoid", nil, "node indices to treat as impassable")

	simulateCmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "Run headless bots over a graph, dropping waypoints as they go",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Int("bots", 4, "number of bots")
	simulateCmd.Flags().Int("frames", 3600, "frames to simulate")
	simulateCmd.Flags().String("prefab", "scout.yaml", "bot archetype from prefabs/ (scout drops waypoints, bot does not)")
	simulateCmd.Flags().Bool("watch", false, "reload the graph and goal policy when they change on disk")
	simulateCmd.Flags().Bool("save", false, "save the grown graph back to the file")
	simulateCmd.Flags().Bool("metrics", false, "print navigation metrics when done")

	rootCmd.AddCommand(infoCmd, seedCmd, cleanCmd, routeCmd, simulateCmd)
	return rootCmd
}
