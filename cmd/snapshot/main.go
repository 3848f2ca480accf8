// Package main provides the snapshot CLI, which exports and imports the
// prompt collection directly against a database file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/store/sqlite"
)

var (
	// databasePath and uploadsPath override the server configuration when set.
	databasePath string
	uploadsPath  string
	verbose      bool

	// db and svc are opened by PersistentPreRunE.
	db  *sqlite.Store
	svc *backup.Service
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and import PromptShelf collections",
	Long: `snapshot reads and writes the same JSON documents as the server's
/api/export and /api/import endpoints, working on the database file directly.
Stop the server before importing.`,
	SilenceUsage:      true,
	PersistentPreRunE: openStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databasePath, "database", "", "SQLite database file (default: from server configuration)")
	rootCmd.PersistentFlags().StringVar(&uploadsPath, "uploads", "", "Attachment directory (default: from server configuration)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// openStore resolves paths from the server configuration and opens the database.
func openStore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if databasePath == "" {
		databasePath = cfg.Storage.DatabasePath
	}
	if uploadsPath == "" {
		uploadsPath = cfg.Storage.UploadsPath
	}

	log := logger.Discard()
	if verbose {
		log = logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel("debug")}).
			WithField("database", databasePath)
	}

	db, err = sqlite.Open(databasePath, log.Logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	files, err := attachments.NewStorage(uploadsPath)
	if err != nil {
		return fmt.Errorf("open uploads: %w", err)
	}

	svc = backup.NewService(db, files, log.Logger)
	return nil
}
