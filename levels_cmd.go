package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/hollowreach/ecs/entity"
	"github.com/milk9111/hollowreach/levels"
	"github.com/milk9111/hollowreach/prefabs"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the embedded levels and check their placements",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	names, err := levels.Names()
	if err != nil {
		return err
	}
	failed := 0
	for _, name := range names {
		lvl, err := levels.LoadLevelFromFS(name)
		if err != nil {
			failed++
			fmt.Printf("  %-16s  error: %v\n", name, err)
			continue
		}
		problems := checkPlacements(lvl)
		status := "ok"
		if len(problems) > 0 {
			failed++
			status = fmt.Sprintf("%d problem(s)", len(problems))
		}
		fmt.Printf("  %-16s  %dx%d  %d entities  %s\n", name, lvl.Width, lvl.Height, len(lvl.Entities), status)
		for _, p := range problems {
			fmt.Printf("      %s\n", p)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d level(s) failed", failed)
	}
	return nil
}

// checkPlacements reports placements whose prefab does not parse.
func checkPlacements(lvl *levels.Level) []string {
	var out []string
	for i, ent := range lvl.Entities {
		if _, err := prefabs.LoadEntityBuildSpec(entity.PrefabFor(ent.Type)); err != nil {
			out = append(out, fmt.Sprintf("entity %d (%s): %v", i, ent.Type, err))
		}
	}
	return out
}
