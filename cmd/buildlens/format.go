package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// outputResult writes result in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(stdout, result)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// formatDiagnosticsText formats diagnostics as "file:line:col: severity: message [code]".
func formatDiagnosticsText(w io.Writer, ds []CLIDiagnostic) {
	for _, d := range ds {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n", d.File, d.StartLine, d.StartCol, d.Severity, d.Message, d.Code)
	}
}

// formatTargetsText formats targets as aligned columns.
func formatTargetsText(w io.Writer, ts []CLITarget) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tKIND\tFILE\tLINE")
	for _, t := range ts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", t.Label, t.Kind, t.File, t.StartLine)
	}
	tw.Flush()
}

// formatLabelsText formats label elements as aligned columns.
func formatLabelsText(w io.Writer, ls []CLILabel) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTR\tVALUE\tCANONICAL\tLINE\tCOL")
	for _, l := range ls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", l.Attr, l.Value, l.Canonical, l.StartLine, l.StartCol)
	}
	tw.Flush()
}

// formatLinksText formats links as "line:col label -> target".
func formatLinksText(w io.Writer, ls []CLILink) {
	for _, l := range ls {
		fmt.Fprintf(w, "%d:%d %s -> %s\n", l.StartLine, l.StartCol, l.Label, l.Target)
	}
}

// formatFormatResultsText lists the files that changed.
func formatFormatResultsText(w io.Writer, rs []CLIFormatResult) {
	for _, r := range rs {
		if r.Changed {
			fmt.Fprintln(w, r.File)
		}
	}
}

// formatStatsText formats index stats as readable text.
func formatStatsText(w io.Writer, st CLIStats) {
	fmt.Fprintln(w, "Index Summary")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Files: %d\n", st.Files)
	fmt.Fprintf(w, "Targets: %d\n", st.Targets)
	fmt.Fprintf(w, "Labels: %d\n", st.Labels)
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIDiagnostic:
		formatDiagnosticsText(w, v)
	case []CLITarget:
		formatTargetsText(w, v)
	case CLITarget:
		formatTargetsText(w, []CLITarget{v})
	case []CLILabel:
		formatLabelsText(w, v)
	case []CLILink:
		formatLinksText(w, v)
	case CLIResolution:
		fmt.Fprintln(w, v.Path)
	case []CLIFormatResult:
		formatFormatResultsText(w, v)
	case CLIStats:
		formatStatsText(w, v)
	case nil:
		// No output for nil results (e.g., query target with no match).
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
