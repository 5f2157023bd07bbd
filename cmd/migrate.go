package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/killallgit/paperreel-api/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the PaperReel API.

Available subcommands:
  up      - Create or update all tables
  down    - Drop all tables
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update all tables",
	Long: `Create or update the documents, blocks, captions and annotation
snapshot tables. Running it again is safe.`,
	RunE: runMigrateUp,
}

// migrateDownCmd drops the schema
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop all tables",
	Long: `Drop every table the API uses. All documents and saved annotations
are lost.`,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows table status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  `Display the current status of the database: each table and whether it exists.`,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(cmd *cobra.Command, fn func(db *database.DB) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Database, log.Named("database"))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	return fn(db)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	return withDatabase(cmd, func(db *database.DB) error {
		if err := db.Migrate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		return nil
	})
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will drop all tables. Continue? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if r := strings.TrimSpace(response); r != "y" && r != "Y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Rollback cancelled")
			return nil
		}
	}

	return withDatabase(cmd, func(db *database.DB) error {
		if err := db.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All tables dropped")
		return nil
	})
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	return withDatabase(cmd, func(db *database.DB) error {
		tables, err := db.Status()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Database Migration Status")
		fmt.Fprintln(out, strings.Repeat("=", 50))
		pending := 0
		for _, t := range tables {
			state := "applied"
			if !t.Exists {
				state = "pending"
				pending++
			}
			fmt.Fprintf(out, "  %-30s %s\n", t.Table, state)
		}
		fmt.Fprintf(out, "\n%d of %d tables pending\n", pending, len(tables))
		return nil
	})
}
