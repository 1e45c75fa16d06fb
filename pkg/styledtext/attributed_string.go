// Package styledtext provides the immutable value objects at the core of
// text-input state reconciliation: an attributed string made of styled
// runs, and the paragraph-level attributes that accompany it. Values are
// compared structurally and hash stably, so they can serve as memoization
// keys across the boundary between the declarative tree builder and the
// platform text field.
package styledtext

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/errors"
)

// Fragment is a single styled run of text. Text carries the characters,
// Attributes their style, and AttachmentTag an optional host-owned inline
// attachment (0 means none).
type Fragment struct {
	Text          string
	Attributes    TextAttributes
	AttachmentTag int64
}

// IsAttachment reports whether the fragment stands in for an inline
// attachment rather than plain text.
func (f Fragment) IsAttachment() bool {
	return f.AttachmentTag != 0
}

// AttributedString is an ordered sequence of styled fragments. The
// fragments partition the full string: concatenating their Text fields in
// order yields String() with no gaps or overlaps. Treat values as
// immutable; every operation returns a new AttributedString.
type AttributedString struct {
	fragments []Fragment
}

// NewAttributedString builds an attributed string from fragments,
// dropping empty ones (a fragment with no text and no attachment
// contributes nothing to the partition).
func NewAttributedString(fragments ...Fragment) AttributedString {
	kept := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Text == "" && !f.IsAttachment() {
			continue
		}
		kept = append(kept, f)
	}
	return AttributedString{fragments: kept}
}

// Plain builds a single-fragment attributed string with uniform style.
func Plain(text string, attributes TextAttributes) AttributedString {
	if text == "" {
		return AttributedString{}
	}
	return AttributedString{fragments: []Fragment{{Text: text, Attributes: attributes}}}
}

// Fragments returns a copy of the fragment sequence.
func (s AttributedString) Fragments() []Fragment {
	out := make([]Fragment, len(s.fragments))
	copy(out, s.fragments)
	return out
}

// FragmentCount returns the number of fragments.
func (s AttributedString) FragmentCount() int {
	return len(s.fragments)
}

// String returns the concatenated text of all fragments.
func (s AttributedString) String() string {
	if len(s.fragments) == 1 {
		return s.fragments[0].Text
	}
	var sb strings.Builder
	for _, f := range s.fragments {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the string has no fragments.
func (s AttributedString) IsEmpty() bool {
	return len(s.fragments) == 0
}

// Len returns the length of the concatenated text in bytes.
func (s AttributedString) Len() int {
	n := 0
	for _, f := range s.fragments {
		n += len(f.Text)
	}
	return n
}

// GraphemeLen returns the length of the concatenated text in grapheme
// clusters. This is the unit a platform text field counts for limits
// like maxLength, where one emoji is one character no matter how many
// bytes encode it.
func (s AttributedString) GraphemeLen() int {
	n := 0
	for _, f := range s.fragments {
		n += uniseg.GraphemeClusterCount(f.Text)
	}
	return n
}

// Append returns a new attributed string with the fragment appended.
func (s AttributedString) Append(f Fragment) AttributedString {
	if f.Text == "" && !f.IsAttachment() {
		return s
	}
	fragments := make([]Fragment, 0, len(s.fragments)+1)
	fragments = append(fragments, s.fragments...)
	fragments = append(fragments, f)
	return AttributedString{fragments: fragments}
}

// Equal reports structural equality: same fragments, same order, same
// styles. Identity of the underlying storage is irrelevant.
func (s AttributedString) Equal(other AttributedString) bool {
	if len(s.fragments) != len(other.fragments) {
		return false
	}
	for i, f := range s.fragments {
		if f != other.fragments[i] {
			return false
		}
	}
	return true
}

// Hash returns a stable order-sensitive hash over all fragments.
func (s AttributedString) Hash() uint64 {
	h := hashInt(0, len(s.fragments))
	for _, f := range s.fragments {
		h = hashString(h, f.Text)
		h = hashUint64(h, f.Attributes.Hash())
		h = hashUint64(h, uint64(f.AttachmentTag))
	}
	return h
}

// Payload converts the attributed string to a generic key-value payload.
// The payload carries the full string, the per-fragment runs, and the
// content hash used by receivers as a cache key.
func (s AttributedString) Payload() bridge.Payload {
	fragments := make([]any, 0, len(s.fragments))
	for _, f := range s.fragments {
		fp := bridge.Payload{
			"string":         f.Text,
			"textAttributes": f.Attributes.Payload(),
		}
		if f.IsAttachment() {
			fp["attachmentTag"] = f.AttachmentTag
		}
		fragments = append(fragments, fp)
	}
	return bridge.Payload{
		"string":    s.String(),
		"fragments": fragments,
		"hash":      int64(s.Hash()),
	}
}

// AttributedStringFromPayload reconstructs an attributed string from a
// payload. Missing keys yield an empty value; present keys of the wrong
// type fail with a MalformedPatchError. The "string" and "hash" keys are
// derived fields and are ignored on the way in.
func AttributedStringFromPayload(p bridge.Payload) (AttributedString, error) {
	items, present, ok := bridge.List(p, "fragments")
	if !ok {
		return AttributedString{}, &errors.MalformedPatchError{Key: "fragments", Want: "list of maps", Got: p["fragments"]}
	}
	if !present {
		return AttributedString{}, nil
	}
	fragments := make([]Fragment, 0, len(items))
	for _, item := range items {
		text, _, ok := bridge.String(item, "string")
		if !ok {
			return AttributedString{}, &errors.MalformedPatchError{Key: "fragments.string", Want: "string", Got: item["string"]}
		}
		attrsPayload, attrsPresent, ok := bridge.Map(item, "textAttributes")
		if !ok {
			return AttributedString{}, &errors.MalformedPatchError{Key: "fragments.textAttributes", Want: "map", Got: item["textAttributes"]}
		}
		var attrs TextAttributes
		if attrsPresent {
			var err error
			attrs, err = TextAttributesFromPayload(attrsPayload)
			if err != nil {
				return AttributedString{}, err
			}
		}
		tag, _, ok := bridge.Int64(item, "attachmentTag")
		if !ok {
			return AttributedString{}, &errors.MalformedPatchError{Key: "fragments.attachmentTag", Want: "integer", Got: item["attachmentTag"]}
		}
		fragments = append(fragments, Fragment{Text: text, Attributes: attrs, AttachmentTag: tag})
	}
	return NewAttributedString(fragments...), nil
}
