package store

import "strings"

// pruneChunk is the number of rows staged per INSERT, well under SQLite's
// default limit of 32766 bound parameters.
const pruneChunk = 500

// valuesList returns "(?),(?),(?)" for n single-column rows.
func valuesList(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("(?),", n-1) + "(?)"
}

// stringsToArgs converts []string to []any for use with database/sql.
func stringsToArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
