package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show finished lessons with scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		learner, err := resolveLearner(cmd, st)
		if err != nil {
			return err
		}

		rows, err := st.FinishedSummaries(learner)
		if err != nil {
			return fmt.Errorf("list finished sessions: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No finished lessons yet.")
			return nil
		}
		fmt.Printf("%-20s %-30s %s\n", "FINISHED", "TOPIC", "SCORE")
		for _, r := range rows {
			fmt.Printf("%-20s %-30s %d/%d\n", r.FinishedAt, r.TopicName, r.Correct, r.Attempts)
		}
		return nil
	},
}
