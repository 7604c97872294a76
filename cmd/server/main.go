package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	portOverride string

	rootCmd = &cobra.Command{
		Use:           "reservations",
		Short:         "Restaurant reservation and table seating service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the floor feed and the audit consumer",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create the reservations and dining_tables schema",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert the default dining room when no tables exist",
		RunE:  runSeed,
	}
)

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&portOverride, "port", "", "HTTP port (overrides APP_PORT)")
	}
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
