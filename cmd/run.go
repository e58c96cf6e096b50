package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/app"
	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/store"
)

// runApp opens the store, picks the backend, and launches the TUI. The
// local store is always open: it holds the learner identity and doubles as
// the offline backend when no server is configured.
func runApp(cmd *cobra.Command) error {
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

	name, err := st.Setting("learner_name")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: read learner name: %v\n", err)
	}

	client := resolveBackend(cmd, st)

	return app.Run(app.Options{
		Client:      client,
		Learner:     learner,
		LearnerName: name,
		SaveName: func(n string) error {
			return st.SetSetting("learner_name", n)
		},
	})
}

// resolveBackend returns the HTTP client when a server is configured, the
// local store adapter otherwise.
func resolveBackend(cmd *cobra.Command, st *store.Store) backend.Client {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = os.Getenv("LESSONLOOP_SERVER")
	}
	if server != "" {
		return backend.NewHTTP(server)
	}
	return store.NewLocal(st)
}

// resolveLearner returns the learner id: --learner flag, then
// LESSONLOOP_LEARNER, then the stored id (created on first run).
func resolveLearner(cmd *cobra.Command, st *store.Store) (string, error) {
	if id, _ := cmd.Flags().GetString("learner"); id != "" {
		return id, nil
	}
	if id := os.Getenv("LESSONLOOP_LEARNER"); id != "" {
		return id, nil
	}

	id, err := st.Setting("learner_id")
	if err != nil {
		return "", fmt.Errorf("read learner id: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id = uuid.New().String()
	if err := st.SetSetting("learner_id", id); err != nil {
		return "", fmt.Errorf("store learner id: %w", err)
	}
	return id, nil
}
