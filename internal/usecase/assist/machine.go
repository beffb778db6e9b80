// Package assist orchestrates the per-field suggestion lifecycle: the UI
// affordance state machine, the single live pending suggestion, and the
// transform round-trip over the message channel.
package assist

import "fmt"

// State is a position in the per-field affordance lifecycle.
type State int

const (
	// StateIdle: no classified field has focus; no affordance is shown.
	StateIdle State = iota

	// StateIconShown: a classified, visible field has focus and the trigger
	// icon is displayed.
	StateIconShown

	// StatePopupOpen: the command popup is open over the field.
	StatePopupOpen

	// StateProcessing: a transform request is in flight. The trigger is
	// disabled for the duration; only one Processing phase may exist per
	// field at a time.
	StateProcessing

	// StateSuggestionPending: a formatted suggestion has been written into
	// the field and awaits a single accept or reject.
	StateSuggestionPending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIconShown:
		return "icon-shown"
	case StatePopupOpen:
		return "popup-open"
	case StateProcessing:
		return "processing"
	case StateSuggestionPending:
		return "suggestion-pending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event is a discrete external stimulus fed into the transition function.
type Event int

const (
	// EventFocusField: focus landed on a classified field.
	EventFocusField Event = iota

	// EventFocusLost: focus moved to a non-classified element.
	EventFocusLost

	// EventOpenPopup: explicit trigger, icon click or keyboard shortcut.
	EventOpenPopup

	// EventDismiss: outside click or Escape-equivalent.
	EventDismiss

	// EventCommand: a transform command was selected.
	EventCommand

	// EventResponse: the transform completed and the suggestion was written.
	EventResponse

	// EventFailure: the transform failed; the field was left untouched.
	EventFailure

	// EventAccept resolves the pending suggestion, keeping it.
	EventAccept

	// EventReject resolves the pending suggestion, restoring the original.
	EventReject
)

func (e Event) String() string {
	switch e {
	case EventFocusField:
		return "focus-field"
	case EventFocusLost:
		return "focus-lost"
	case EventOpenPopup:
		return "open-popup"
	case EventDismiss:
		return "dismiss"
	case EventCommand:
		return "command"
	case EventResponse:
		return "response"
	case EventFailure:
		return "failure"
	case EventAccept:
		return "accept"
	case EventReject:
		return "reject"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Next is the single transition function for the affordance lifecycle.
// Transitions not listed are invalid and leave the caller's state unchanged.
func Next(s State, e Event) (State, error) {
	switch s {
	case StateIdle:
		if e == EventFocusField {
			return StateIconShown, nil
		}
		if e == EventFocusLost {
			return StateIdle, nil
		}

	case StateIconShown:
		switch e {
		case EventFocusField:
			return StateIconShown, nil
		case EventFocusLost:
			return StateIdle, nil
		case EventOpenPopup:
			return StatePopupOpen, nil
		}

	case StatePopupOpen:
		switch e {
		case EventDismiss:
			return StateIconShown, nil
		case EventFocusLost:
			return StateIdle, nil
		case EventFocusField:
			return StateIconShown, nil
		case EventCommand:
			return StateProcessing, nil
		}

	case StateProcessing:
		switch e {
		case EventResponse:
			return StateSuggestionPending, nil
		case EventFailure:
			return StateIconShown, nil
		case EventDismiss:
			// Dismissal does not cancel the in-flight call.
			return StateProcessing, nil
		case EventFocusField:
			// Focus moved to another classified field; the in-flight
			// response for the old field will be dropped as stale.
			return StateIconShown, nil
		case EventFocusLost:
			return StateIdle, nil
		}

	case StateSuggestionPending:
		switch e {
		case EventAccept, EventReject:
			return StateIconShown, nil
		case EventFocusLost:
			return StateIdle, nil
		case EventFocusField:
			return StateIconShown, nil
		}
	}

	return s, fmt.Errorf("invalid transition: %s on %s", e, s)
}
