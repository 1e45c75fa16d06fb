package styledtext

import (
	"fmt"
	"math"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/errors"
)

// EllipsizeMode defines where the ellipsis is placed when text cannot
// fit its boundaries.
type EllipsizeMode int

const (
	// EllipsizeModeClip truncates without an ellipsis.
	EllipsizeModeClip EllipsizeMode = iota
	// EllipsizeModeHead places the ellipsis at the start.
	EllipsizeModeHead
	// EllipsizeModeMiddle places the ellipsis in the middle.
	EllipsizeModeMiddle
	// EllipsizeModeTail places the ellipsis at the end.
	EllipsizeModeTail
)

// String returns a human-readable representation of the ellipsize mode.
func (m EllipsizeMode) String() string {
	switch m {
	case EllipsizeModeClip:
		return "clip"
	case EllipsizeModeHead:
		return "head"
	case EllipsizeModeMiddle:
		return "middle"
	case EllipsizeModeTail:
		return "tail"
	default:
		return fmt.Sprintf("EllipsizeMode(%d)", int(m))
	}
}

func ellipsizeModeFromString(s string) (EllipsizeMode, error) {
	switch s {
	case "clip", "":
		return EllipsizeModeClip, nil
	case "head":
		return EllipsizeModeHead, nil
	case "middle":
		return EllipsizeModeMiddle, nil
	case "tail":
		return EllipsizeModeTail, nil
	default:
		return 0, &errors.MalformedPatchError{Key: "ellipsizeMode", Want: "clip|head|middle|tail", Got: s}
	}
}

// TextBreakStrategy selects the line-break algorithm.
type TextBreakStrategy int

const (
	// TextBreakStrategySimple breaks greedily at the last fitting boundary.
	TextBreakStrategySimple TextBreakStrategy = iota
	// TextBreakStrategyHighQuality optimizes breaks including hyphenation.
	TextBreakStrategyHighQuality
	// TextBreakStrategyBalanced evens out line lengths.
	TextBreakStrategyBalanced
)

// String returns a human-readable representation of the break strategy.
func (s TextBreakStrategy) String() string {
	switch s {
	case TextBreakStrategySimple:
		return "simple"
	case TextBreakStrategyHighQuality:
		return "highQuality"
	case TextBreakStrategyBalanced:
		return "balanced"
	default:
		return fmt.Sprintf("TextBreakStrategy(%d)", int(s))
	}
}

func textBreakStrategyFromString(s string) (TextBreakStrategy, error) {
	switch s {
	case "simple", "":
		return TextBreakStrategySimple, nil
	case "highQuality":
		return TextBreakStrategyHighQuality, nil
	case "balanced":
		return TextBreakStrategyBalanced, nil
	default:
		return 0, &errors.MalformedPatchError{Key: "textBreakStrategy", Want: "simple|highQuality|balanced", Got: s}
	}
}

// FontSizeUnset is the sentinel for an undefined font-size bound.
// Compare with math.IsNaN, never with ==.
var FontSizeUnset = math.NaN()

// ParagraphAttributes represents all paragraph-level formatting of a
// piece of text. Together with an AttributedString it fully describes
// the visual representation of the text on screen. Values are immutable;
// Equal and Hash make them usable as memoization keys.
type ParagraphAttributes struct {
	// MaximumNumberOfLines limits the line count; zero means no limit.
	MaximumNumberOfLines int

	// EllipsizeMode defines where to truncate when the text does not fit.
	EllipsizeMode EllipsizeMode

	TextBreakStrategy TextBreakStrategy

	// AdjustsFontSizeToFit shrinks the font to fit constrained boundaries.
	AdjustsFontSizeToFit bool

	// IncludeFontPadding leaves room for ascenders and descenders instead
	// of using the font ascent and descent strictly.
	IncludeFontPadding bool

	// MinimumFontSize and MaximumFontSize bound the font-size adjustment.
	// Both must be set, or both left at FontSizeUnset.
	MinimumFontSize float64
	MaximumFontSize float64
}

// DefaultParagraphAttributes returns the attribute set applied when the
// tree builder supplies nothing: unlimited lines, font padding included,
// font-size bounds unset.
func DefaultParagraphAttributes() ParagraphAttributes {
	return ParagraphAttributes{
		IncludeFontPadding: true,
		MinimumFontSize:    FontSizeUnset,
		MaximumFontSize:    FontSizeUnset,
	}
}

// Validate checks internal consistency. A half-defined font-size bound
// is rejected with a ValidationError rather than silently coerced.
func (p ParagraphAttributes) Validate() error {
	minSet := !math.IsNaN(p.MinimumFontSize)
	maxSet := !math.IsNaN(p.MaximumFontSize)
	if minSet != maxSet {
		return &errors.ValidationError{
			Field:  "minimumFontSize/maximumFontSize",
			Reason: "font-size bounds must be both set or both unset",
		}
	}
	if minSet && p.MinimumFontSize > p.MaximumFontSize {
		return &errors.ValidationError{
			Field:  "minimumFontSize/maximumFontSize",
			Reason: "minimum font size exceeds maximum",
		}
	}
	if p.MaximumNumberOfLines < 0 {
		return &errors.ValidationError{
			Field:  "maximumNumberOfLines",
			Reason: "must be zero (unlimited) or positive",
		}
	}
	return nil
}

// Equal reports structural equality. Font-size bounds are compared by
// bit pattern so two unset (NaN) bounds compare equal.
func (p ParagraphAttributes) Equal(other ParagraphAttributes) bool {
	return p.MaximumNumberOfLines == other.MaximumNumberOfLines &&
		p.EllipsizeMode == other.EllipsizeMode &&
		p.TextBreakStrategy == other.TextBreakStrategy &&
		p.AdjustsFontSizeToFit == other.AdjustsFontSizeToFit &&
		p.IncludeFontPadding == other.IncludeFontPadding &&
		math.Float64bits(p.MinimumFontSize) == math.Float64bits(other.MinimumFontSize) &&
		math.Float64bits(p.MaximumFontSize) == math.Float64bits(other.MaximumFontSize)
}

// Hash returns a stable order-sensitive hash combining every field.
func (p ParagraphAttributes) Hash() uint64 {
	h := hashInt(0, p.MaximumNumberOfLines)
	h = hashInt(h, int(p.EllipsizeMode))
	h = hashInt(h, int(p.TextBreakStrategy))
	h = hashBool(h, p.AdjustsFontSizeToFit)
	h = hashBool(h, p.IncludeFontPadding)
	h = hashFloat(h, p.MinimumFontSize)
	h = hashFloat(h, p.MaximumFontSize)
	return h
}

// Payload converts the attributes to a generic key-value payload.
// Unset font-size bounds are omitted rather than encoded as NaN, which
// most host marshaling layers cannot represent.
func (p ParagraphAttributes) Payload() bridge.Payload {
	out := bridge.Payload{
		"maximumNumberOfLines": int64(p.MaximumNumberOfLines),
		"ellipsizeMode":        p.EllipsizeMode.String(),
		"textBreakStrategy":    p.TextBreakStrategy.String(),
		"adjustsFontSizeToFit": p.AdjustsFontSizeToFit,
		"includeFontPadding":   p.IncludeFontPadding,
	}
	if !math.IsNaN(p.MinimumFontSize) {
		out["minimumFontSize"] = p.MinimumFontSize
	}
	if !math.IsNaN(p.MaximumFontSize) {
		out["maximumFontSize"] = p.MaximumFontSize
	}
	return out
}

// ParagraphAttributesFromPayload reconstructs paragraph attributes from
// a payload. Missing keys fall back to the defaults; present keys of the
// wrong type fail with a MalformedPatchError, and the reconstructed
// value is validated before being returned.
func ParagraphAttributesFromPayload(p bridge.Payload) (ParagraphAttributes, error) {
	out := DefaultParagraphAttributes()

	if v, present, ok := bridge.Int64(p, "maximumNumberOfLines"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "maximumNumberOfLines", Want: "integer", Got: p["maximumNumberOfLines"]}
	} else if present {
		out.MaximumNumberOfLines = int(v)
	}
	if v, present, ok := bridge.String(p, "ellipsizeMode"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "ellipsizeMode", Want: "string", Got: p["ellipsizeMode"]}
	} else if present {
		mode, err := ellipsizeModeFromString(v)
		if err != nil {
			return ParagraphAttributes{}, err
		}
		out.EllipsizeMode = mode
	}
	if v, present, ok := bridge.String(p, "textBreakStrategy"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "textBreakStrategy", Want: "string", Got: p["textBreakStrategy"]}
	} else if present {
		strategy, err := textBreakStrategyFromString(v)
		if err != nil {
			return ParagraphAttributes{}, err
		}
		out.TextBreakStrategy = strategy
	}
	if v, present, ok := bridge.Bool(p, "adjustsFontSizeToFit"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "adjustsFontSizeToFit", Want: "bool", Got: p["adjustsFontSizeToFit"]}
	} else if present {
		out.AdjustsFontSizeToFit = v
	}
	if v, present, ok := bridge.Bool(p, "includeFontPadding"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "includeFontPadding", Want: "bool", Got: p["includeFontPadding"]}
	} else if present {
		out.IncludeFontPadding = v
	}
	if v, present, ok := bridge.Float64(p, "minimumFontSize"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "minimumFontSize", Want: "number", Got: p["minimumFontSize"]}
	} else if present {
		out.MinimumFontSize = v
	}
	if v, present, ok := bridge.Float64(p, "maximumFontSize"); !ok {
		return ParagraphAttributes{}, &errors.MalformedPatchError{Key: "maximumFontSize", Want: "number", Got: p["maximumFontSize"]}
	} else if present {
		out.MaximumFontSize = v
	}

	if err := out.Validate(); err != nil {
		return ParagraphAttributes{}, err
	}
	return out, nil
}
