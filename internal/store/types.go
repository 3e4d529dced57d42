package store

import "time"

// File is one indexed Starlark file.
type File struct {
	ID          int64
	Path        string // workspace-relative, slash-separated
	Kind        string
	Package     string
	Hash        string
	LastIndexed time.Time
}

// Target is one declared target.
type Target struct {
	ID        int64
	FileID    int64
	Name      string
	Kind      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// TargetLabel is one element of a target's srcs or deps list. Value is the
// literal text; Canonical is the absolute //pkg:name form when the value is a
// local label, and empty when it is not a label at all.
type TargetLabel struct {
	ID        int64
	TargetID  int64
	Attr      string
	Ordinal   int
	Value     string
	Canonical string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// TargetRef is a target together with the file and package declaring it.
type TargetRef struct {
	Target
	Path    string
	Package string
}

// Label returns the absolute label of the target, e.g. "//pkg:name".
func (r TargetRef) Label() string {
	return "//" + r.Package + ":" + r.Name
}

// FileRecord is everything extracted from one file, ready to be committed.
type FileRecord struct {
	File    File
	Targets []TargetRecord
}

// TargetRecord is a target and its label elements.
type TargetRecord struct {
	Target Target
	Labels []TargetLabel
}

// Stats summarizes the index contents.
type Stats struct {
	Files   int
	Targets int
	Labels  int
}
