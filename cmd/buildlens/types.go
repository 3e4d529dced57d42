package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIDiagnostic is a JSON-friendly diagnostic.
type CLIDiagnostic struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// CLITarget is a JSON-friendly target declaration.
type CLITarget struct {
	Label     string `json:"label"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// CLILabel is a JSON-friendly srcs or deps element.
type CLILabel struct {
	Attr      string `json:"attr"`
	Ordinal   int    `json:"ordinal"`
	Value     string `json:"value"`
	Canonical string `json:"canonical,omitempty"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// CLILink is a JSON-friendly document link.
type CLILink struct {
	Label     string `json:"label"`
	Target    string `json:"target"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// CLIResolution is the result of resolving one label.
type CLIResolution struct {
	Label string `json:"label"`
	From  string `json:"from"`
	Path  string `json:"path"`
}

// CLIFormatResult reports whether a file was (or would be) reformatted.
type CLIFormatResult struct {
	File    string `json:"file"`
	Changed bool   `json:"changed"`
}

// CLIStats is a JSON-friendly index summary.
type CLIStats struct {
	Files   int `json:"files"`
	Targets int `json:"targets"`
	Labels  int `json:"labels"`
}
