package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/milk9111/botnav/waypoint"
	"github.com/spf13/cobra"
)

func runInfo(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := e.load(args[0]); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	h := e.store.Header()
	fmt.Fprintf(out, "file:       %s\n", args[0])
	fmt.Fprintf(out, "id:         %s\n", h.ID)
	fmt.Fprintf(out, "revision:   %d (format %d)\n", h.Revision, h.Version)
	fmt.Fprintf(out, "level:      %s\n", h.Level)
	fmt.Fprintf(out, "compressed: %t\n", h.Compressed)
	if !h.Saved.IsZero() {
		fmt.Fprintf(out, "saved:      %s by %s\n", h.Saved.Format(time.RFC3339), h.Author)
	}
	if h.Checksum != "" && h.Checksum != e.level.Checksum() {
		fmt.Fprintf(out, "checksum:   %s (level is now %s)\n", h.Checksum, e.level.Checksum())
	}

	byType := map[string]int{}
	links, full, isolated := 0, 0, 0
	for i := 1; i < e.store.Len(); i++ {
		n, ok := e.store.Node(i)
		if !ok || !n.Valid() {
			continue
		}
		byType[n.Type.String()]++
		links += n.LinkCount()
		if n.LinkCount() == waypoint.MaxLinks {
			full++
		}
		if n.LinkCount() == 0 {
			isolated++
		}
	}
	fmt.Fprintf(out, "nodes:      %d\n", e.store.ValidCount())
	names := make([]string, 0, len(byType))
	for name := range byType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-16s %d\n", name, byType[name])
	}
	fmt.Fprintf(out, "links:      %d (%d nodes full, %d isolated)\n", links, full, isolated)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		author = defaultAuthor()
	}
	compress, _ := cmd.Flags().GetBool("compress")

	added := waypoint.Seed(e.store, e.level.SeedPoints())
	if added == 0 {
		return fmt.Errorf("level %s has nothing to seed from", e.level.Name)
	}
	if err := waypoint.SaveFile(args[0], e.store, e.saveOptions(author, compress)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d nodes into %s (revision %d)\n", added, args[0], e.store.Header().Revision)
	return nil
}

func runClean(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := e.load(args[0]); err != nil {
		return err
	}
	report := e.store.Clean()
	fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d, removed %d, pruned %d links\n",
		report.Invalidated, report.Removed, report.Pruned)

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		return nil
	}
	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		author = defaultAuthor()
	}
	h := e.store.Header()
	return waypoint.SaveFile(args[0], e.store, e.saveOptions(author, h.Compressed))
}

func runRoute(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := e.load(args[0]); err != nil {
		return err
	}
	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad from index %q: %w", args[1], err)
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("bad to index %q: %w", args[2], err)
	}
	avoidList, _ := cmd.Flags().GetIntSlice("avoid")
	avoid := make(map[int]struct{}, len(avoidList))
	for _, i := range avoidList {
		avoid[i] = struct{}{}
	}

	path, ok := waypoint.NewPathfinder(e.store).Search(from, to, avoid)
	if !ok {
		return fmt.Errorf("no route from %d to %d", from, to)
	}
	out := cmd.OutOrStdout()
	for _, i := range path {
		n, _ := e.store.Node(i)
		fmt.Fprintf(out, "%5d  %-16s (%.1f, %.1f, %.1f)\n", i, n.Type, n.Pos.X, n.Pos.Y, n.Pos.Z)
	}
	fmt.Fprintf(out, "%d nodes, length %.1f\n", len(path), e.store.PathLength(path))
	return nil
}
