package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/milk9111/hollowreach/achievement"
)

var flagHistoryLimit int

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Inspect or reset saved achievements",
}

var achievementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every achievement and its saved state",
	Args:  cobra.NoArgs,
	RunE:  runAchievementsList,
}

var achievementsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all saved unlocks",
	Args:  cobra.NoArgs,
	RunE:  runAchievementsReset,
}

var achievementsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the unlock log (sqlite backend only)",
	Args:  cobra.NoArgs,
	RunE:  runAchievementsHistory,
}

func init() {
	achievementsHistoryCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of log entries to show")

	achievementsCmd.AddCommand(achievementsListCmd)
	achievementsCmd.AddCommand(achievementsResetCmd)
	achievementsCmd.AddCommand(achievementsHistoryCmd)
}

func runAchievementsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tracker, err := loadTracker(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := restoreUnlocks(tracker, store); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tKIND\tSTATUS\tDESCRIPTION")
	for _, st := range tracker.All() {
		title, desc := st.Title, st.Description
		if st.Hidden && !st.Unlocked {
			title, desc = "???", "Hidden achievement"
		}
		status := "locked"
		if st.Unlocked {
			status = "unlocked " + st.UnlockedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", title, st.Kind, status, desc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d of %d unlocked\n", tracker.UnlockedCount(), tracker.Len())
	return nil
}

func runAchievementsReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Reset(); err != nil {
		return err
	}
	fmt.Println("Achievements reset.")
	return nil
}

func runAchievementsHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()

	sqlite, ok := store.(*achievement.SQLiteStore)
	if !ok {
		return errors.New("history needs the sqlite backend")
	}
	entries, err := sqlite.History(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No achievement activity recorded yet.")
		return nil
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "-"
		}
		fmt.Printf("  %s  %-8s  %s\n", e.At.Format("2006-01-02 15:04"), e.Event, title)
	}
	return nil
}
