package buildlens

import (
	"github.com/jward/buildlens/internal/diagnostics"
	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/links"
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/store"
	"github.com/jward/buildlens/internal/targets"
)

// Public type aliases for the internal types used in the Engine and Index
// APIs. External consumers use these names; no conversion is needed.

type Label = label.Label
type Point = position.Point
type Range = position.Range
type Declaration = targets.Declaration
type Diagnostic = diagnostics.Diagnostic
type Severity = diagnostics.Severity
type Link = links.Link
type Store = store.Store
type TargetRef = store.TargetRef
type TargetLabel = store.TargetLabel
type Stats = store.Stats
