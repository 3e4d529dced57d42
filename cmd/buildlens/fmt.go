package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/buildlens/internal/format"
)

var flagCheck bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Rewrite build files in canonical buildifier layout",
	Long:  "Formats the given files, or every build file in the workspace. With --check, files are left untouched and the command exits 1 when any would change.",
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&flagCheck, "check", false, "report files that need formatting without rewriting them")
}

func runFmt(cmd *cobra.Command, args []string) error {
	s, err := openSession(false)
	if err != nil {
		return outputError("fmt", err)
	}
	defer s.Close()

	if !flagCheck && !s.cfg.FormatEnabled() {
		return outputError("fmt", errors.New("formatting is disabled by config (format.enabled: false)"))
	}
	files, err := buildFileArgs(s, args)
	if err != nil {
		return outputError("fmt", err)
	}

	results := make([]CLIFormatResult, 0, len(files))
	changed := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return outputError("fmt", fmt.Errorf("reading %s: %w", file, err))
		}
		out, err := format.Format(file, src)
		if err != nil {
			return outputError("fmt", err)
		}
		diff := string(out) != string(src)
		if diff {
			changed++
			if !flagCheck {
				if err := os.WriteFile(file, out, 0o644); err != nil {
					return outputError("fmt", fmt.Errorf("writing %s: %w", file, err))
				}
			}
		}
		results = append(results, CLIFormatResult{File: relPath(s.root, file), Changed: diff})
	}

	if err := outputResult(CLIResult{Command: "fmt", Results: results, TotalCount: &changed}); err != nil {
		return err
	}
	if flagCheck && changed > 0 {
		return errProblems
	}
	return nil
}
