package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/buildlens/internal/workspace"
)

// --- Session commands: check, targets, resolve, links ---

var flagFrom string

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Report syntax errors, broken labels and duplicate targets",
	Long:  "Checks the given build files, or every BUILD file in the workspace. Exits 1 when problems are found.",
	RunE:  runCheck,
}

var targetsCmd = &cobra.Command{
	Use:   "targets <file>",
	Short: "List the targets a build file declares",
	Args:  cobra.ExactArgs(1),
	RunE:  runTargets,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <label>",
	Short: "Resolve a label to the file it denotes",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

var linksCmd = &cobra.Command{
	Use:   "links <file>",
	Short: "List the srcs and deps labels of a build file with their link targets",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinks,
}

func init() {
	resolveCmd.Flags().StringVar(&flagFrom, "from", "", "file the label is written in (default: BUILD in the current directory)")
}

// buildFileArgs returns the absolute paths named by args, or every build file
// of the given kinds in the workspace when args is empty.
func buildFileArgs(s *session, args []string, kinds ...workspace.Kind) ([]string, error) {
	if len(args) > 0 {
		out := make([]string, 0, len(args))
		for _, a := range args {
			p, err := resolveFilePath(a)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}
	rels, err := workspace.BuildFiles(s.root,
		workspace.WithIgnore(s.cfg.Discovery.Ignore...),
		workspace.WithKinds(kinds...))
	if err != nil {
		return nil, fmt.Errorf("discovering build files: %w", err)
	}
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		out = append(out, filepath.Join(s.root, filepath.FromSlash(rel)))
	}
	return out, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return outputError("check", err)
	}
	defer s.Close()

	files, err := buildFileArgs(s, args, workspace.Build)
	if err != nil {
		return outputError("check", err)
	}

	ctx := context.Background()
	results := []CLIDiagnostic{}
	for _, file := range files {
		ds, err := s.engine.Diagnostics(ctx, s.engine.URI(file))
		if err != nil {
			return outputError("check", err)
		}
		for _, d := range ds {
			results = append(results, CLIDiagnostic{
				File:      relPath(s.root, file),
				StartLine: d.Range.Start.Row,
				StartCol:  d.Range.Start.Col,
				EndLine:   d.Range.End.Row,
				EndCol:    d.Range.End.Col,
				Severity:  d.Severity.String(),
				Code:      d.Code,
				Message:   d.Message,
			})
		}
	}

	total := len(results)
	if err := outputResult(CLIResult{Command: "check", Results: results, TotalCount: &total}); err != nil {
		return err
	}
	if total > 0 {
		return errProblems
	}
	return nil
}

func runTargets(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return outputError("targets", err)
	}
	defer s.Close()

	file, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("targets", err)
	}
	if _, err := os.Stat(file); err != nil {
		return outputError("targets", fmt.Errorf("file not found: %s", args[0]))
	}
	pkg, err := workspace.PackageOf(s.root, file)
	if err != nil {
		return outputError("targets", err)
	}

	results := []CLITarget{}
	for _, d := range s.engine.Targets(context.Background(), s.engine.URI(file)) {
		start, end := d.Call.Start(), d.Call.End()
		results = append(results, CLITarget{
			Label:     "//" + pkg + ":" + d.Name.Value(),
			Name:      d.Name.Value(),
			Kind:      d.Kind,
			File:      relPath(s.root, file),
			StartLine: start.Row,
			StartCol:  start.Col,
			EndLine:   end.Row,
			EndCol:    end.Col,
		})
	}
	return outputResult(CLIResult{Command: "targets", Results: results})
}

func runResolve(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return outputError("resolve", err)
	}
	defer s.Close()

	from := flagFrom
	if from == "" {
		from = "BUILD"
	}
	from, err = resolveFilePath(from)
	if err != nil {
		return outputError("resolve", err)
	}

	path, err := s.engine.Resolve(args[0], from)
	if err != nil {
		return outputError("resolve", err)
	}
	return outputResult(CLIResult{
		Command: "resolve",
		Results: CLIResolution{Label: args[0], From: relPath(s.root, from), Path: path},
	})
}

func runLinks(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return outputError("links", err)
	}
	defer s.Close()

	file, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("links", err)
	}
	links, err := s.engine.Links(context.Background(), s.engine.URI(file))
	if err != nil {
		return outputError("links", err)
	}

	results := make([]CLILink, 0, len(links))
	for _, l := range links {
		results = append(results, CLILink{
			Label:     l.Label,
			Target:    l.Target,
			StartLine: l.Range.Start.Row,
			StartCol:  l.Range.Start.Col,
			EndLine:   l.Range.End.Row,
			EndCol:    l.Range.End.Col,
		})
	}
	return outputResult(CLIResult{Command: "links", Results: results})
}
