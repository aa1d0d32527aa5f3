package types

import "github.com/cuemby/clusterscheduler/pkg/score"

// ColocationRole restricts a colocation constraint to a particular phase
// of the dependent/primary resources' activation: "Started", "Promoted",
// or unrestricted.
type ColocationRole int

const (
	ColocationRoleAny ColocationRole = iota
	ColocationRoleStarted
	ColocationRolePromoted
	ColocationRoleUnpromoted
)

// Colocation is a scored affinity (positive score) or anti-affinity
// (negative score, including -Infinity) between a dependent resource and
// a primary resource.
type Colocation struct {
	ID string

	DependentID string // "this"
	PrimaryID string // "with-this"

	Score score.Score

	// NodeAttribute is the node attribute values are compared on; ""
	// defaults to UniqueNameAttr (exact same node).
	NodeAttribute string

	DependentRole ColocationRole
	PrimaryRole ColocationRole
}

// IsMandatory reports whether this constraint is a hard requirement
// (+Infinity) or prohibition (-Infinity) rather than a soft preference.
func (c *Colocation) IsMandatory() bool { return score.IsMandatory(c.Score) }

// IsAntiAffinity reports whether the constraint pushes the dependent away
// from the primary (negative score).
func (c *Colocation) IsAntiAffinity() bool { return c.Score < 0 }
