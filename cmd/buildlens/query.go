package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/buildlens"
)

var (
	flagFile string
	flagName string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the target index",
	Long:  "Run queries against an indexed workspace. Labels must be absolute (//pkg:name). All line and column numbers are 0-based.",
}

var queryTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List indexed targets by file or by name",
	Args:  cobra.NoArgs,
	RunE:  runQueryTargets,
}

var queryDependentsCmd = &cobra.Command{
	Use:   "dependents <label>",
	Short: "List the targets whose deps contain a label",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryDependents,
}

var queryLabelsCmd = &cobra.Command{
	Use:   "labels <label>",
	Short: "List the srcs and deps of a target",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryLabels,
}

var queryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count indexed files, targets and labels",
	Args:  cobra.NoArgs,
	RunE:  runQueryStats,
}

func init() {
	queryTargetsCmd.Flags().StringVar(&flagFile, "file", "", "build file, relative to the workspace root")
	queryTargetsCmd.Flags().StringVar(&flagName, "name", "", "target name")

	queryCmd.AddCommand(queryTargetsCmd)
	queryCmd.AddCommand(queryDependentsCmd)
	queryCmd.AddCommand(queryLabelsCmd)
	queryCmd.AddCommand(queryStatsCmd)
}

// --- Helpers ---

// openIndex opens a session over an existing index.
func openIndex() (*session, *buildlens.Index, error) {
	root, err := workspaceRoot("")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, nil, err
	}
	dbPath := resolveDBPath(root, cfg)
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("index not found: %s (run 'buildlens index' first)", dbPath)
	}
	s, err := openSessionAt(root, true)
	if err != nil {
		return nil, nil, err
	}
	return s, s.engine.Index(), nil
}

func toCLITargets(refs []*buildlens.TargetRef) []CLITarget {
	out := make([]CLITarget, 0, len(refs))
	for _, r := range refs {
		out = append(out, CLITarget{
			Label:     r.Label(),
			Name:      r.Name,
			Kind:      r.Kind,
			File:      r.Path,
			StartLine: r.StartLine,
			StartCol:  r.StartCol,
			EndLine:   r.EndLine,
			EndCol:    r.EndCol,
		})
	}
	return out
}

// --- Commands ---

func runQueryTargets(cmd *cobra.Command, args []string) error {
	if (flagFile == "") == (flagName == "") {
		return outputError("targets", errors.New("exactly one of --file or --name is required"))
	}
	s, q, err := openIndex()
	if err != nil {
		return outputError("targets", err)
	}
	defer s.Close()

	var refs []*buildlens.TargetRef
	if flagFile != "" {
		file := flagFile
		if filepath.IsAbs(file) {
			file = relPath(s.root, file)
		}
		refs, err = q.TargetsIn(file)
	} else {
		refs, err = q.TargetsNamed(flagName)
	}
	if err != nil {
		return outputError("targets", err)
	}
	results := toCLITargets(refs)
	total := len(results)
	return outputResult(CLIResult{Command: "targets", Results: results, TotalCount: &total})
}

func runQueryDependents(cmd *cobra.Command, args []string) error {
	s, q, err := openIndex()
	if err != nil {
		return outputError("dependents", err)
	}
	defer s.Close()

	refs, err := q.Dependents(args[0])
	if err != nil {
		return outputError("dependents", err)
	}
	results := toCLITargets(refs)
	total := len(results)
	return outputResult(CLIResult{Command: "dependents", Results: results, TotalCount: &total})
}

func runQueryLabels(cmd *cobra.Command, args []string) error {
	s, q, err := openIndex()
	if err != nil {
		return outputError("labels", err)
	}
	defer s.Close()

	ls, err := q.Labels(args[0])
	if err != nil {
		return outputError("labels", err)
	}
	results := make([]CLILabel, 0, len(ls))
	for _, l := range ls {
		results = append(results, CLILabel{
			Attr:      l.Attr,
			Ordinal:   l.Ordinal,
			Value:     l.Value,
			Canonical: l.Canonical,
			StartLine: l.StartLine,
			StartCol:  l.StartCol,
			EndLine:   l.EndLine,
			EndCol:    l.EndCol,
		})
	}
	return outputResult(CLIResult{Command: "labels", Results: results})
}

func runQueryStats(cmd *cobra.Command, args []string) error {
	s, q, err := openIndex()
	if err != nil {
		return outputError("stats", err)
	}
	defer s.Close()

	st, err := q.Stats()
	if err != nil {
		return outputError("stats", err)
	}
	return outputResult(CLIResult{Command: "stats", Results: CLIStats(st)})
}
