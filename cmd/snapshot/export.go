package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptshelf/promptshelf-server/internal/backup"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the collection to a snapshot file",
	Long: `Export writes categories, prompts, tags and knowledge entries as a
snapshot document. Without a file argument the document goes to stdout.

Example:
  snapshot export backup.json
  snapshot export --database ~/PromptShelf/prompts.db > backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	snap, err := svc.Export(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()
		w = f
	}

	if err := backup.WriteSnapshot(w, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if len(args) == 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d prompts, %d knowledge entries to %s\n",
			len(snap.Data.Prompts), len(snap.Data.Knowledge), args[0])
	}
	return nil
}
