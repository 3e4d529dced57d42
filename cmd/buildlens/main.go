package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/buildlens"
	"github.com/jward/buildlens/internal/config"
	"github.com/jward/buildlens/internal/logging"
	"github.com/jward/buildlens/internal/workspace"
)

var (
	flagDB       string
	flagFormat   string
	flagConfig   string
	flagLogLevel string
	flagRoot     string
)

// Output destinations; swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// errProblems is returned by commands that ran fine but found problems to
// report, such as check and fmt --check. It only sets the exit status.
var errProblems = errors.New("problems found")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled && !errors.Is(err, errProblems) {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "buildlens",
	Short: "Bazel build file analysis",
	Long: "buildlens parses BUILD, WORKSPACE and .bzl files with tree-sitter to list targets, " +
		"resolve labels, report broken labels and keep a SQLite index of the workspace's targets. " +
		"All line and column numbers are 0-based.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "index path (default: index.db from config, relative to workspace root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .buildlens.yaml at workspace root)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default: from config)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "workspace root (default: detected from the current directory)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(fmtCmd)
}

// session is what every command needs: the workspace root, its config and an
// Engine over it.
type session struct {
	root   string
	cfg    *config.Config
	engine *buildlens.Engine
}

func (s *session) Close() error { return s.engine.Close() }

// openSession finds the workspace, loads its config and creates an Engine.
// The index is opened only when withIndex is set.
func openSession(withIndex bool) (*session, error) {
	root, err := workspaceRoot("")
	if err != nil {
		return nil, err
	}
	return openSessionAt(root, withIndex)
}

// openSessionAt is openSession for a workspace root that is already known.
func openSessionAt(root string, withIndex bool) (*session, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, err := logging.New(level, logging.FormatText, stderr)
	if err != nil {
		return nil, err
	}

	opts := []buildlens.Option{
		buildlens.WithLogger(logger),
		buildlens.WithConfig(cfg),
		buildlens.WithIndex(""),
	}
	if withIndex {
		opts = append(opts, buildlens.WithIndex(resolveDBPath(root, cfg)))
	}
	e, err := buildlens.New(root, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return &session{root: root, cfg: cfg, engine: e}, nil
}

// loadConfig reads the --config file, or .buildlens.yaml at root.
func loadConfig(root string) (*config.Config, error) {
	if flagConfig == "" {
		return config.Load(root)
	}
	data, err := os.ReadFile(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return config.Parse(flagConfig, data)
}

// workspaceRoot returns dir if set, then --root, then the workspace
// enclosing the current directory.
func workspaceRoot(dir string) (string, error) {
	if dir == "" {
		dir = flagRoot
	}
	if dir != "" {
		return resolveTargetDir([]string{dir})
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	return findWorkspaceRoot(cwd), nil
}

// resolveTargetDir returns the absolute path of the directory to index.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findWorkspaceRoot walks up from startDir looking for a WORKSPACE or
// MODULE.bazel file, then for a .git directory. Returns startDir if neither
// is found.
func findWorkspaceRoot(startDir string) string {
	if root, err := workspace.FindRoot(startDir); err == nil {
		return root
	}
	return findRepoRoot(startDir)
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding .git.
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the index path from the --db flag or the config.
func resolveDBPath(root string, cfg *config.Config) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(root, flagDB)
	}
	return cfg.DBPath(root)
}

// resolveFilePath converts a file argument to an absolute path.
// If the path is already absolute, it's returned as-is.
// Otherwise, it's resolved relative to the current working directory.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

// relPath returns path relative to root with forward slashes, or path itself
// when it lies outside root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
