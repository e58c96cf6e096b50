package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/store"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List imported topics grouped by supertopic",
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

		supers, err := st.Supertopics()
		if err != nil {
			return fmt.Errorf("list supertopics: %w", err)
		}
		if len(supers) == 0 {
			fmt.Println("No topics imported yet. Run `lessonloop import <plan.json>` first.")
			return nil
		}
		for _, sup := range supers {
			fmt.Println(sup)
			topics, err := st.Topics(sup)
			if err != nil {
				return fmt.Errorf("list topics for %q: %w", sup, err)
			}
			for _, t := range topics {
				fmt.Printf("  %-36s %s\n", t.ID, t.Name)
			}
		}
		return nil
	},
}
