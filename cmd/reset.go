package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Terminate unfinished sessions, releasing the session lock",
	Long:  "Marks unfinished sessions terminated so a new lesson can be started. Attempt history is kept. Use --topic to target a single session; without it every unfinished session is terminated.",
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

		if topicID, _ := cmd.Flags().GetString("topic"); topicID != "" {
			if err := st.Terminate(learner, topicID); err != nil {
				return fmt.Errorf("terminate session: %w", err)
			}
			fmt.Printf("Terminated session for topic %s.\n", topicID)
			return nil
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
			if err := st.Terminate(learner, u.TopicID); err != nil {
				return fmt.Errorf("terminate %s: %w", u.TopicID, err)
			}
			fmt.Printf("Terminated %q.\n", u.TopicName)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().String("topic", "", "Terminate only the session for this topic id")
}
