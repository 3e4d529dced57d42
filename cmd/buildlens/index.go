package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index the workspace's build files",
	Long:  "Parses every BUILD, WORKSPACE and .bzl file whose content changed since the last run and writes their targets and labels to the SQLite index.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete the index and rebuild it from scratch")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := workspaceRoot(dir)
	if err != nil {
		return err
	}
	if flagForce {
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		dbPath := resolveDBPath(root, cfg)
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing index for --force: %w", err)
			}
		}
		fmt.Fprintf(stderr, "Cleared index: %s\n", dbPath)
	}

	s, err := openSessionAt(root, true)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.engine.IndexWorkspace(context.Background())
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	fmt.Fprintf(stderr, "Indexed %s in %s (%d files: %d indexed, %d unchanged, %d pruned)\n",
		s.root,
		time.Since(start).Round(time.Millisecond),
		res.Discovered, res.Indexed, res.Unchanged, res.Pruned,
	)
	fmt.Fprintf(stderr, "Database: %s\n", resolveDBPath(s.root, s.cfg))
	return nil
}
