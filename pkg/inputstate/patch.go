package inputstate

import (
	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/errors"
	"github.com/go-drift/textstate/pkg/styledtext"
)

// PatchOrigin identifies which writer produced a patch. Derive treats
// the two origins differently: tree patches may replace content and
// attributes, live-edit patches may only update scalar bookkeeping.
type PatchOrigin int

const (
	// OriginTree marks a patch produced by the declarative tree builder
	// from a prop change.
	OriginTree PatchOrigin = iota
	// OriginLiveEdit marks a patch produced by the platform text field
	// from user input.
	OriginLiveEdit
)

// PartialPatch is an explicit partial update atop a previous state.
// Every field is optional; nil means "inherit from previous". This
// replaces the loosely-typed dynamic payload the boundary transports:
// type checking happens once at decode time, not at every field lookup.
type PartialPatch struct {
	Origin PatchOrigin

	EventCount      *int64
	CachedContentID *int64

	Content               *styledtext.AttributedString
	ParagraphAttributes   *styledtext.ParagraphAttributes
	DefaultTextAttributes *styledtext.TextAttributes
	DefaultParentContext  *ParentContext

	ThemePaddingStart  *float64
	ThemePaddingEnd    *float64
	ThemePaddingTop    *float64
	ThemePaddingBottom *float64
}

// IsEmpty reports whether the patch carries no fields at all. Deriving
// with an empty patch returns the previous state unchanged.
func (p PartialPatch) IsEmpty() bool {
	return p.EventCount == nil &&
		p.CachedContentID == nil &&
		p.Content == nil &&
		p.ParagraphAttributes == nil &&
		p.DefaultTextAttributes == nil &&
		p.DefaultParentContext == nil &&
		p.ThemePaddingStart == nil &&
		p.ThemePaddingEnd == nil &&
		p.ThemePaddingTop == nil &&
		p.ThemePaddingBottom == nil
}

// Patch payload keys recognized by DecodePatch. Unknown keys are
// ignored for forward compatibility.
const (
	keyMostRecentEventCount = "mostRecentEventCount"
	keyOpaqueCacheID        = "opaqueCacheId"
	keyThemePaddingStart    = "themePaddingStart"
	keyThemePaddingEnd      = "themePaddingEnd"
	keyThemePaddingTop      = "themePaddingTop"
	keyThemePaddingBottom   = "themePaddingBottom"
)

// DecodePatch converts a raw live-edit payload into a validated partial
// patch. Each recognized key defaults to the corresponding field of
// previous, never to a constant, so decoding an empty payload yields a
// no-op patch. A value of the wrong type fails with a
// MalformedPatchError; the caller's policy is to drop the patch and
// keep the previous state.
func DecodePatch(raw bridge.Payload, previous VersionedState) (PartialPatch, error) {
	patch := PartialPatch{Origin: OriginLiveEdit}

	eventCount := previous.EventCount
	if v, present, ok := bridge.Int64(raw, keyMostRecentEventCount); !ok {
		return PartialPatch{}, &errors.MalformedPatchError{Key: keyMostRecentEventCount, Want: "integer", Got: raw[keyMostRecentEventCount]}
	} else if present {
		eventCount = v
	}
	patch.EventCount = &eventCount

	cacheID := previous.CachedContentID
	if v, present, ok := bridge.Int64(raw, keyOpaqueCacheID); !ok {
		return PartialPatch{}, &errors.MalformedPatchError{Key: keyOpaqueCacheID, Want: "integer", Got: raw[keyOpaqueCacheID]}
	} else if present {
		cacheID = v
	}
	patch.CachedContentID = &cacheID

	paddings := []struct {
		key      string
		fallback float64
		dst      **float64
	}{
		{keyThemePaddingStart, previous.ThemePadding.Start, &patch.ThemePaddingStart},
		{keyThemePaddingEnd, previous.ThemePadding.End, &patch.ThemePaddingEnd},
		{keyThemePaddingTop, previous.ThemePadding.Top, &patch.ThemePaddingTop},
		{keyThemePaddingBottom, previous.ThemePadding.Bottom, &patch.ThemePaddingBottom},
	}
	for _, entry := range paddings {
		value := entry.fallback
		if v, present, ok := bridge.Float64(raw, entry.key); !ok {
			return PartialPatch{}, &errors.MalformedPatchError{Key: entry.key, Want: "number", Got: raw[entry.key]}
		} else if present {
			value = v
		}
		*entry.dst = &value
	}

	return patch, nil
}
