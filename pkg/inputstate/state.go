// Package inputstate implements the reconciled state object shared by a
// text field's two writers: the declarative tree builder, which replaces
// content wholesale when props change, and the platform text field, which
// sends back scalar bookkeeping after each user edit. State values are
// immutable; every transition derives a new value from the previous one
// plus a partial patch, so neither writer can clobber the other's
// in-flight work.
package inputstate

import (
	"golang.org/x/image/font"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/styledtext"
)

// Frame is a view's layout frame in its parent's coordinate space.
type Frame struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ParentContext carries the host view context the tree builder supplies
// at mount. It is opaque to reconciliation and travels through state
// transitions unchanged.
type ParentContext struct {
	// Tag identifies the host view that owns the text field.
	Tag int64

	// Frame is the view's layout frame.
	Frame Frame

	// Face optionally carries the font face the host's measurer resolved
	// for the view's default attributes.
	Face font.Face
}

// ThemePadding holds the four platform theme padding scalars. The live
// widget reports them back when the platform theme changes under it.
type ThemePadding struct {
	Start  float64
	End    float64
	Top    float64
	Bottom float64
}

// VersionedState is the authoritative, version-stamped text-input state.
// EventCount orders live edits against tree updates; CachedContentID
// lets the receiving side skip content it already holds. Values are
// immutable; use Derive to produce successors.
type VersionedState struct {
	// EventCount is the most recent user-edit event the live widget has
	// reported. It is monotonically non-decreasing and only the live
	// widget bumps it.
	EventCount int64

	// CachedContentID is an opaque handle to a render the receiving side
	// already holds. Zero means no cached render: content must be
	// recomputed and retransmitted.
	CachedContentID int64

	// Content is the authoritative text and style payload for a new
	// render.
	Content styledtext.AttributedString

	// CommittedContent snapshots what the tree builder last committed,
	// kept separately so a live edit can be merged against the last
	// known-good tree state rather than whatever is on screen.
	CommittedContent styledtext.AttributedString

	// ParagraphAttributes holds paragraph-level formatting.
	ParagraphAttributes styledtext.ParagraphAttributes

	// DefaultTextAttributes is the style applied to text the widget
	// produces without explicit styling.
	DefaultTextAttributes styledtext.TextAttributes

	// DefaultParentContext is the host view context from mount time.
	DefaultParentContext ParentContext

	// ThemePadding carries the platform theme padding scalars.
	ThemePadding ThemePadding
}

// New builds the initial state for a freshly mounted component from
// tree-builder inputs. The paragraph attributes are validated; an
// inconsistent value fails with a ValidationError.
func New(
	content styledtext.AttributedString,
	paragraphAttributes styledtext.ParagraphAttributes,
	defaultTextAttributes styledtext.TextAttributes,
	parentContext ParentContext,
	themePadding ThemePadding,
) (VersionedState, error) {
	if err := paragraphAttributes.Validate(); err != nil {
		return VersionedState{}, err
	}
	return VersionedState{
		Content:               content,
		CommittedContent:      content,
		ParagraphAttributes:   paragraphAttributes,
		DefaultTextAttributes: defaultTextAttributes,
		DefaultParentContext:  parentContext,
		ThemePadding:          themePadding,
	}, nil
}

// Derive produces the successor state from a previous state and a
// partial patch. Fields present in the patch overwrite; absent fields
// inherit from previous. Live-edit patches never carry content or
// attributes back (the widget does not serialize style runs), so on
// that path content, committed content, and paragraph attributes are
// always inherited regardless of what the patch holds. There are no
// error conditions: missing fields fall back to the previous value.
func Derive(previous VersionedState, patch PartialPatch) VersionedState {
	next := previous

	if patch.Origin == OriginLiveEdit {
		if patch.EventCount != nil {
			next.EventCount = *patch.EventCount
		}
		if patch.CachedContentID != nil {
			next.CachedContentID = *patch.CachedContentID
		}
	} else {
		if patch.Content != nil {
			next.Content = *patch.Content
			next.CommittedContent = *patch.Content
		}
		if patch.ParagraphAttributes != nil {
			next.ParagraphAttributes = *patch.ParagraphAttributes
		}
		if patch.DefaultTextAttributes != nil {
			next.DefaultTextAttributes = *patch.DefaultTextAttributes
		}
		if patch.DefaultParentContext != nil {
			next.DefaultParentContext = *patch.DefaultParentContext
		}
	}

	if patch.ThemePaddingStart != nil {
		next.ThemePadding.Start = *patch.ThemePaddingStart
	}
	if patch.ThemePaddingEnd != nil {
		next.ThemePadding.End = *patch.ThemePaddingEnd
	}
	if patch.ThemePaddingTop != nil {
		next.ThemePadding.Top = *patch.ThemePaddingTop
	}
	if patch.ThemePaddingBottom != nil {
		next.ThemePadding.Bottom = *patch.ThemePaddingBottom
	}

	return next
}

// Equal reports whether two states are structurally identical. Floats
// are compared by bit pattern; the parent context's font face is
// compared by identity since faces are host-owned handles.
func (s VersionedState) Equal(other VersionedState) bool {
	return s.EventCount == other.EventCount &&
		s.CachedContentID == other.CachedContentID &&
		s.Content.Equal(other.Content) &&
		s.CommittedContent.Equal(other.CommittedContent) &&
		s.ParagraphAttributes.Equal(other.ParagraphAttributes) &&
		s.DefaultTextAttributes == other.DefaultTextAttributes &&
		s.DefaultParentContext == other.DefaultParentContext &&
		s.ThemePadding == other.ThemePadding
}

// SerializeCaps declares what the host platform needs from state
// serialization. Platforms whose widget reads state directly set
// IncludeContent; others only ever need the bookkeeping fields.
type SerializeCaps struct {
	// IncludeContent permits full content and paragraph attributes in
	// the payload when no cached render is available.
	IncludeContent bool
}

// Payload serializes the state for the live widget. Bookkeeping fields
// are always present. Content and paragraph attributes are included
// only when the capability allows it and CachedContentID is zero: a
// non-zero cache id means the receiver already holds an up-to-date
// render, and content it has cached is never retransmitted.
func (s VersionedState) Payload(caps SerializeCaps) bridge.Payload {
	out := bridge.Payload{
		"mostRecentEventCount": s.EventCount,
		"opaqueCacheId":        s.CachedContentID,
		"themePaddingStart":    s.ThemePadding.Start,
		"themePaddingEnd":      s.ThemePadding.End,
		"themePaddingTop":      s.ThemePadding.Top,
		"themePaddingBottom":   s.ThemePadding.Bottom,
	}
	if caps.IncludeContent && s.CachedContentID == 0 {
		out["attributedString"] = s.Content.Payload()
		out["paragraphAttributes"] = s.ParagraphAttributes.Payload()
		out["hash"] = int64(s.Content.Hash())
	}
	return out
}
