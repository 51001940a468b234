package models

import "github.com/google/uuid"

// PromptStatus represents the lifecycle state of a submitted prompt.
type PromptStatus string

const (
	// PromptSent indicates the prompt was received but not yet distributed.
	PromptSent PromptStatus = "sent"
	// PromptInWhirlwind indicates the prompt's fragments were swept into
	// the swarm.
	PromptInWhirlwind PromptStatus = "in_whirlwind"
	// PromptSpinning indicates the swarm is actively interacting on the
	// prompt's fragments.
	PromptSpinning PromptStatus = "spinning"
	// PromptAssembling indicates results are being collected.
	PromptAssembling PromptStatus = "assembling"
	// PromptComplete indicates the final output is available.
	PromptComplete PromptStatus = "complete"
)

// Valid returns true if the status is a known value.
func (s PromptStatus) Valid() bool {
	switch s {
	case PromptSent, PromptInWhirlwind, PromptSpinning, PromptAssembling, PromptComplete:
		return true
	default:
		return false
	}
}

// Fragment is a small run of words cut from a prompt. Fragments keep their
// original order; that order is the reintegration order.
type Fragment struct {
	// ID is the unique identifier for this fragment.
	ID uuid.UUID `json:"id"`
	// Content is the fragment text (1-3 whitespace-delimited words).
	Content string `json:"content"`
	// SubgraphID is the id of the subgraph carrying this fragment.
	SubgraphID uuid.UUID `json:"subgraph_id"`
	// Processed marks whether the fragment has been through the swarm.
	Processed bool `json:"processed"`
}
