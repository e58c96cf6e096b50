package cmd

import (
	"github.com/adwate/lessonloop/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lessonloop",
	Short: "Adaptive lesson sessions in the terminal",
	Long:  "LessonLoop — terminal client that drives a learner through adaptive multi-question lessons, with retry variants, resumable sessions, and automatic progress saving.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LESSONLOOP_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Lesson service base URL (overrides LESSONLOOP_SERVER env var)")
	rootCmd.PersistentFlags().String("learner", "", "Learner id (overrides LESSONLOOP_LEARNER env var)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LESSONLOOP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
