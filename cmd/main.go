// Command justicebot runs the JusticeBot API, the evidence worker, or schema migrations.
//
// Usage:
//
//	justicebot serve     HTTP API (and the bus consumer in memory/redis dispatch)
//	justicebot worker    Temporal worker or Redis consumer for evidence events
//	justicebot migrate   apply the database schema and exit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/justicebot/justicebot-backend/internal/app"
)

var rootCmd = &cobra.Command{
	Use:           "justicebot",
	Short:         "JusticeBot backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), app.RoleAPI)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Serve(cmd.Context())
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process evidence events from Temporal or Redis",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), app.RoleWorker)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Work(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Migrate(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "justicebot: %v\n", err)
		stop()
		os.Exit(1)
	}
}
