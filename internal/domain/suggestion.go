package domain

import (
	"fmt"
	"time"
)

// Action identifies a transform the assistant can apply to field text.
type Action string

const (
	ActionRephrase Action = "rephrase"
	ActionEnhance  Action = "enhance"
	ActionAgent    Action = "agent"
)

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionRephrase, ActionEnhance, ActionAgent:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

const (
	SuggestionStatusPending  = "pending"
	SuggestionStatusAccepted = "accepted"
	SuggestionStatusRejected = "rejected"
)

// Suggestion holds a field's pre-transform content together with the
// fragment just written into it, so a single accept or reject can resolve
// it. At most one live suggestion exists per field at a time; it is
// destroyed on first resolution.
type Suggestion struct {
	FieldID   string
	Action    Action
	Original  string
	Fragment  Fragment
	CreatedAt time.Time
}

// NewSuggestion records the original field content alongside the formatted
// replacement at write time.
func NewSuggestion(fieldID string, action Action, original string, fragment Fragment, now time.Time) Suggestion {
	return Suggestion{
		FieldID:   fieldID,
		Action:    action,
		Original:  original,
		Fragment:  fragment,
		CreatedAt: now,
	}
}
