package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the connection to the catalog service",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("moviedb %s (built %s)\n\n", version, buildTime)
	fmt.Printf("Server: %s\n", cfg.Server.URL)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		fmt.Println("✗ Connection failed")
		return err
	}
	fmt.Printf("✓ Connected (%s)\n", time.Since(start).Round(time.Millisecond))

	st := sessions.State()
	if st.Authenticated {
		fmt.Printf("Session: %s (%s)\n", st.User.Username, st.User.Role)
	} else {
		fmt.Println("Session: not signed in")
	}

	fmt.Printf("Cache: %d entries\n", data.Len())
	return nil
}
