// Package field is the live-widget side of text-input state
// reconciliation. A Session stands in for the platform text field: it
// tracks the user's edit event counter, clamps input to a grapheme-based
// length limit, and produces the scalar patch payloads the widget sends
// back across the boundary. The widget never serializes style runs; only
// bookkeeping and theme hints travel on this path.
package field

import (
	"sync"

	"github.com/rivo/uniseg"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/errors"
	"github.com/go-drift/textstate/pkg/inputstate"
)

// EditedValue is the widget's current text and selection.
type EditedValue struct {
	// Text is the field's content.
	Text string
	// SelectionStart and SelectionEnd are byte offsets into Text;
	// equal offsets represent a collapsed cursor.
	SelectionStart int
	SelectionEnd   int
}

// Session tracks a live text field's editing state on the interaction
// thread. Each user edit bumps the event counter; the counter tags every
// outgoing patch so the commit point can order edits against tree
// rebuilds.
type Session struct {
	mu         sync.Mutex
	eventCount int64
	value      EditedValue

	// maxLength limits the text length in grapheme clusters; 0 = unlimited.
	maxLength int
}

// NewSession creates a session with the given initial value. maxLength
// limits input in grapheme clusters (what the user perceives as one
// character); zero means unlimited.
func NewSession(initial EditedValue, maxLength int) *Session {
	s := &Session{maxLength: maxLength}
	s.value = s.clamp(initial)
	return s
}

// EventCount returns the most recent user-edit event count.
func (s *Session) EventCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventCount
}

// Value returns the current edited value.
func (s *Session) Value() EditedValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// HandleEdit records a user edit and returns the live-edit patch payload
// to send to the commit point. The text is clamped to the session's
// grapheme limit before it is recorded. An edit that leaves the value
// unchanged (for example typing past the limit) produces no patch.
func (s *Session) HandleEdit(value EditedValue) (bridge.Payload, bool) {
	clamped := s.clamp(value)

	s.mu.Lock()
	defer s.mu.Unlock()
	if clamped == s.value {
		return nil, false
	}
	s.value = clamped
	s.eventCount++
	return bridge.Payload{
		"mostRecentEventCount": s.eventCount,
	}, true
}

// RelayoutPayload builds the patch a widget sends to force a relayout
// without resending content: the cache id tells the tree builder the
// widget already holds an up-to-date render, and the theme padding
// reports platform theme values that may have changed underneath.
// The current event count tags the patch so it is not mistaken for a
// stale edit.
func (s *Session) RelayoutPayload(cacheID int64, padding inputstate.ThemePadding) bridge.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bridge.Payload{
		"mostRecentEventCount": s.eventCount,
		"opaqueCacheId":        cacheID,
		"themePaddingStart":    padding.Start,
		"themePaddingEnd":      padding.End,
		"themePaddingTop":      padding.Top,
		"themePaddingBottom":   padding.Bottom,
	}
}

// ApplyRemote consumes a serialized state payload pushed from the tree
// builder. The content is applied only when the payload's event count
// has caught up with the session's: a lower count means the user has
// typed since that state was produced, and applying it would clobber
// the in-flight edit. Payloads without content (cache short-circuit)
// leave the text untouched. Reports whether the text was replaced.
//
// There is no caller to hand a decode failure back to on this path, so
// a mistyped payload is dropped and reported to the global handler.
func (s *Session) ApplyRemote(payload bridge.Payload) bool {
	remoteCount, present, ok := bridge.Int64(payload, "mostRecentEventCount")
	if !ok {
		s.reportMalformed("mostRecentEventCount", "integer", payload["mostRecentEventCount"])
		return false
	}
	if !present {
		return false
	}
	content, present, ok := bridge.Map(payload, "attributedString")
	if !ok {
		s.reportMalformed("attributedString", "map", payload["attributedString"])
		return false
	}
	if !present {
		return false
	}
	text, _, ok := bridge.String(content, "string")
	if !ok {
		s.reportMalformed("attributedString.string", "string", content["string"])
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if remoteCount < s.eventCount {
		return false
	}
	if text == s.value.Text {
		return false
	}
	s.value = s.clamp(EditedValue{
		Text:           text,
		SelectionStart: len(text),
		SelectionEnd:   len(text),
	})
	return true
}

// ApplyRemoteBytes decodes a codec-encoded state payload and applies
// it via ApplyRemote. Hosts that move state across a process boundary
// hand the raw bytes here; in-process hosts call ApplyRemote directly.
// Reports whether the text was replaced; a payload that cannot be
// decoded at all is dropped with the error propagated.
func (s *Session) ApplyRemoteBytes(data []byte) (bool, error) {
	value, err := bridge.DefaultCodec.Decode(data)
	if err != nil {
		return false, err
	}
	if value == nil {
		return false, nil
	}
	payload, ok := value.(map[string]any)
	if !ok {
		return false, &errors.MalformedPatchError{Key: "payload", Want: "map", Got: value}
	}
	return s.ApplyRemote(payload), nil
}

func (s *Session) reportMalformed(key, want string, got any) {
	errors.Report(&errors.StateError{
		Op:   "field.ApplyRemote",
		Kind: errors.KindPayload,
		Err:  &errors.MalformedPatchError{Key: key, Want: want, Got: got},
	})
}

// clamp truncates the value to the session's grapheme limit and keeps
// the selection inside the remaining text.
func (s *Session) clamp(value EditedValue) EditedValue {
	if s.maxLength <= 0 {
		return normalizeSelection(value)
	}
	if uniseg.GraphemeClusterCount(value.Text) <= s.maxLength {
		return normalizeSelection(value)
	}
	value.Text = truncateGraphemes(value.Text, s.maxLength)
	return normalizeSelection(value)
}

// truncateGraphemes cuts text after n grapheme clusters, never splitting
// a cluster (a multi-rune emoji survives or disappears whole).
func truncateGraphemes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	remaining := text
	state := -1
	offset := 0
	for i := 0; i < n && len(remaining) > 0; i++ {
		var cluster string
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		offset += len(cluster)
	}
	return text[:offset]
}

func normalizeSelection(value EditedValue) EditedValue {
	if value.SelectionStart > len(value.Text) {
		value.SelectionStart = len(value.Text)
	}
	if value.SelectionEnd > len(value.Text) {
		value.SelectionEnd = len(value.Text)
	}
	if value.SelectionStart < 0 {
		value.SelectionStart = 0
	}
	if value.SelectionEnd < 0 {
		value.SelectionEnd = 0
	}
	return value
}
