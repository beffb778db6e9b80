package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/field"
)

// Transformer is the outbound port to the background proxy: one transform
// request in, one text result or error out.
type Transformer interface {
	Transform(ctx context.Context, action domain.Action, text string) (string, error)
}

// Formatter derives the paired renderings from raw model text.
type Formatter interface {
	Format(raw string) domain.Fragment
}

// FieldPort is the outbound port to the field adapter.
type FieldPort interface {
	Classify(el field.Element) domain.FieldTarget
	ResolveEditableSurface(el field.Element) field.Element
	ReadText(el field.Element, target domain.FieldTarget) string
	WriteFormatted(el field.Element, target domain.FieldTarget, fragment domain.Fragment) error
	WriteText(el field.Element, target domain.FieldTarget, text string) error
	IsVisible(el field.Element, vp field.Viewport) bool
}

// History persists suggestion outcomes. A nil History disables persistence.
type History interface {
	RecordSuggestion(ctx context.Context, s domain.Suggestion) (int64, error)
	ResolveSuggestion(ctx context.Context, id int64, status string) error
}

var (
	// ErrBusy is returned when a trigger arrives while a transform is
	// already in flight for the field. The trigger is disabled during
	// Processing so overlapping writes to the same field cannot happen.
	ErrBusy = errors.New("a transform is already in progress for this field")

	// ErrEmptyField is returned when the focused field holds no text.
	ErrEmptyField = errors.New("field has no text to transform")

	// ErrNoSuggestion is returned when accept or reject arrives with no live
	// pending suggestion.
	ErrNoSuggestion = errors.New("no pending suggestion")
)

// TriggerResult reports the outcome of a transform trigger.
type TriggerResult struct {
	// Suggestion is the pending suggestion written into the field.
	Suggestion *domain.Suggestion

	// Dropped is set when the response arrived after focus moved away from
	// the originating field; the field was left untouched.
	Dropped bool
}

// Session owns the state for one page's assist lifecycle: the current field
// target, the affordance state, and the at-most-one live pending suggestion.
// All collaborators are injected; the session reads nothing from ambient
// globals. Methods are safe for concurrent use; the transform call is the
// only suspension point and runs outside the lock.
type Session struct {
	formatter Formatter
	fields    FieldPort
	channel   Transformer
	history   History
	now       func() time.Time

	mu        sync.Mutex
	state     State
	element   field.Element
	target    domain.FieldTarget
	pending   *domain.Suggestion
	historyID int64

	// gen increments on every focus change; an in-flight response is only
	// written back when its generation still matches.
	gen uint64
}

// NewSession wires a session from its collaborators. history may be nil.
func NewSession(formatter Formatter, fields FieldPort, channel Transformer, history History) *Session {
	return &Session{
		formatter: formatter,
		fields:    fields,
		channel:   channel,
		history:   history,
		now:       time.Now,
		state:     StateIdle,
	}
}

// SetClock overrides the session clock (for tests).
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// State returns the current affordance state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Target returns the currently focused field target.
func (s *Session) Target() domain.FieldTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Pending returns the live pending suggestion, or nil.
func (s *Session) Pending() *domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Focus feeds a focus change into the session. A classified, visible element
// shows the trigger icon; anything else returns the session to idle. Any
// in-flight transform for the previously focused field is invalidated: its
// eventual response will be dropped rather than written into a stale field.
func (s *Session) Focus(el field.Element, vp field.Viewport) domain.FieldTarget {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.pending = nil
	s.historyID = 0

	target := s.fields.Classify(el)
	if !target.Editable() || !s.fields.IsVisible(el, vp) {
		s.state, _ = Next(s.state, EventFocusLost)
		s.element = nil
		s.target = domain.FieldTarget{Kind: domain.KindNone}
		return s.target
	}

	s.state, _ = Next(s.state, EventFocusField)
	s.element = el
	s.target = target
	return target
}

// OpenPopup handles the explicit trigger that opens the command popup.
func (s *Session) OpenPopup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Next(s.state, EventOpenPopup)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Dismiss handles outside-click or Escape. Dismissal during Processing does
// not cancel the in-flight call.
func (s *Session) Dismiss() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Next(s.state, EventDismiss)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Trigger runs a transform for the focused field: read the field, send the
// request over the channel, format the response, and write the suggestion
// back. A second trigger while one is in flight fails with ErrBusy. A
// response that returns after focus has moved is dropped without touching
// any field.
func (s *Session) Trigger(ctx context.Context, action domain.Action) (TriggerResult, error) {
	s.mu.Lock()

	if s.state == StateProcessing {
		s.mu.Unlock()
		return TriggerResult{}, ErrBusy
	}

	next, err := Next(s.state, EventCommand)
	if err != nil {
		s.mu.Unlock()
		return TriggerResult{}, err
	}

	el := s.element
	target := s.target
	surface := s.fields.ResolveEditableSurface(el)
	original := s.fields.ReadText(surface, target)
	if strings.TrimSpace(original) == "" {
		s.mu.Unlock()
		return TriggerResult{}, ErrEmptyField
	}

	s.state = next
	gen := s.gen
	s.mu.Unlock()

	result, callErr := s.channel.Transform(ctx, action, original)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.state != StateProcessing {
		// Focus moved while the call was in flight.
		return TriggerResult{Dropped: true}, nil
	}

	if callErr != nil {
		s.state, _ = Next(s.state, EventFailure)
		return TriggerResult{}, callErr
	}

	fragment := s.formatter.Format(result)

	// Re-resolve the surface: the host page may have recreated it while the
	// call was in flight.
	surface = s.fields.ResolveEditableSurface(s.element)
	if err := s.fields.WriteFormatted(surface, s.target, fragment); err != nil {
		s.state, _ = Next(s.state, EventFailure)
		return TriggerResult{}, fmt.Errorf("write suggestion: %w", err)
	}

	suggestion := domain.NewSuggestion(s.target.ID, action, original, fragment, s.now())
	s.pending = &suggestion
	s.historyID = 0
	if s.history != nil {
		if id, err := s.history.RecordSuggestion(ctx, suggestion); err == nil {
			s.historyID = id
		}
	}

	s.state, _ = Next(s.state, EventResponse)
	return TriggerResult{Suggestion: &suggestion}, nil
}

// Accept resolves the pending suggestion, keeping the written content.
func (s *Session) Accept(ctx context.Context) error {
	return s.resolve(ctx, EventAccept)
}

// Reject resolves the pending suggestion and restores the field's original
// content.
func (s *Session) Reject(ctx context.Context) error {
	return s.resolve(ctx, EventReject)
}

func (s *Session) resolve(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoSuggestion
	}

	next, err := Next(s.state, e)
	if err != nil {
		return err
	}

	status := domain.SuggestionStatusAccepted
	if e == EventReject {
		status = domain.SuggestionStatusRejected
		surface := s.fields.ResolveEditableSurface(s.element)
		if err := s.fields.WriteText(surface, s.target, s.pending.Original); err != nil {
			return fmt.Errorf("restore original: %w", err)
		}
	}

	if s.history != nil && s.historyID != 0 {
		_ = s.history.ResolveSuggestion(ctx, s.historyID, status)
	}

	s.pending = nil
	s.historyID = 0
	s.state = next
	return nil
}
