package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/promptshelf/promptshelf-server/internal/backup"
)

var merge bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a snapshot file into the collection",
	Long: `Import reads a snapshot document and writes it in one transaction.

By default the import replaces prompts, tags, knowledge entries and custom
categories. With --merge existing rows are kept and rows with a matching id
are updated in place.

Example:
  snapshot import backup.json
  snapshot import --merge shared-prompts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&merge, "merge", false, "Keep existing rows instead of replacing them")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	snap, err := backup.ReadSnapshot(f)
	if err != nil {
		return err
	}

	result, err := svc.Import(cmd.Context(), snap.Data, backup.ModeFor(merge))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "import (%s) complete\n", result.Mode)

	tables := make([]string, 0, len(result.Imported))
	for table := range result.Imported {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(out, "  %-15s %d\n", table, result.Imported[table])
	}
	if result.FilesRemoved > 0 {
		fmt.Fprintf(out, "  removed %d attachment files\n", result.FilesRemoved)
	}
	return nil
}
