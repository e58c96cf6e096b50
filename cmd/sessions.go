package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List unfinished sessions for the current learner",
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

		list, err := st.Unfinished(learner)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No unfinished sessions.")
			return nil
		}
		for _, u := range list {
			fmt.Printf("%-36s %s\n", u.TopicID, u.TopicName)
		}
		return nil
	},
}
