package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adwate/lessonloop/internal/release"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lessonloop", version)

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		defer cancel()

		res, err := release.NewChecker().Check(ctx, version)
		if err != nil {
			if !errors.Is(err, release.ErrDevBuild) {
				fmt.Printf("update check failed: %v\n", err)
			}
			return
		}
		if res.UpdateAvailable {
			fmt.Printf("update available: %s\n", res.LatestVersion)
		} else {
			fmt.Println("you are on the latest version")
		}
	},
}
