package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <plan.json>...",
	Short: "Validate and load lesson plans into the local library",
	Args:  cobra.MinimumNArgs(1),
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

		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			p, err := st.ImportPlan(raw)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			fmt.Printf("imported %q (%d subtopics, %d questions)\n",
				p.TopicName, len(p.Subtopics), p.TotalQuestions())
		}
		return nil
	},
}
