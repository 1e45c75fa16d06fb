package styledtext

import (
	"fmt"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/errors"
)

// Color is a 32-bit ARGB color value.
type Color uint32

// FontWeight represents a numeric font weight.
type FontWeight int

const (
	FontWeightThin     FontWeight = 100
	FontWeightLight    FontWeight = 300
	FontWeightNormal   FontWeight = 400
	FontWeightMedium   FontWeight = 500
	FontWeightSemibold FontWeight = 600
	FontWeightBold     FontWeight = 700
	FontWeightBlack    FontWeight = 900
)

// FontStyle represents normal or italic text styles.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// String returns a human-readable representation of the font style.
func (s FontStyle) String() string {
	switch s {
	case FontStyleNormal:
		return "normal"
	case FontStyleItalic:
		return "italic"
	default:
		return fmt.Sprintf("FontStyle(%d)", int(s))
	}
}

// TextAttributes describes the visual style of a single run of text.
// It is a plain comparable value; two attribute sets are equal exactly
// when every field matches.
type TextAttributes struct {
	Color         Color
	FontFamily    string
	FontSize      float64
	FontWeight    FontWeight
	FontStyle     FontStyle
	LetterSpacing float64
	LineHeight    float64
}

// Hash returns a stable order-sensitive hash combining every field.
func (a TextAttributes) Hash() uint64 {
	h := hashUint64(0, uint64(a.Color))
	h = hashString(h, a.FontFamily)
	h = hashFloat(h, a.FontSize)
	h = hashInt(h, int(a.FontWeight))
	h = hashInt(h, int(a.FontStyle))
	h = hashFloat(h, a.LetterSpacing)
	h = hashFloat(h, a.LineHeight)
	return h
}

// Payload converts the attributes to a generic key-value payload.
func (a TextAttributes) Payload() bridge.Payload {
	return bridge.Payload{
		"color":         int64(a.Color),
		"fontFamily":    a.FontFamily,
		"fontSize":      a.FontSize,
		"fontWeight":    int64(a.FontWeight),
		"fontStyle":     a.FontStyle.String(),
		"letterSpacing": a.LetterSpacing,
		"lineHeight":    a.LineHeight,
	}
}

// TextAttributesFromPayload reconstructs attributes from a payload.
// Missing keys keep their zero value; present keys of the wrong type
// fail with a MalformedPatchError.
func TextAttributesFromPayload(p bridge.Payload) (TextAttributes, error) {
	var a TextAttributes

	if v, present, ok := bridge.Int64(p, "color"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "color", Want: "integer", Got: p["color"]}
	} else if present {
		a.Color = Color(v)
	}
	if v, present, ok := bridge.String(p, "fontFamily"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "fontFamily", Want: "string", Got: p["fontFamily"]}
	} else if present {
		a.FontFamily = v
	}
	if v, present, ok := bridge.Float64(p, "fontSize"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "fontSize", Want: "number", Got: p["fontSize"]}
	} else if present {
		a.FontSize = v
	}
	if v, present, ok := bridge.Int64(p, "fontWeight"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "fontWeight", Want: "integer", Got: p["fontWeight"]}
	} else if present {
		a.FontWeight = FontWeight(v)
	}
	if v, present, ok := bridge.String(p, "fontStyle"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "fontStyle", Want: "string", Got: p["fontStyle"]}
	} else if present {
		style, err := fontStyleFromString(v)
		if err != nil {
			return TextAttributes{}, err
		}
		a.FontStyle = style
	}
	if v, present, ok := bridge.Float64(p, "letterSpacing"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "letterSpacing", Want: "number", Got: p["letterSpacing"]}
	} else if present {
		a.LetterSpacing = v
	}
	if v, present, ok := bridge.Float64(p, "lineHeight"); !ok {
		return TextAttributes{}, &errors.MalformedPatchError{Key: "lineHeight", Want: "number", Got: p["lineHeight"]}
	} else if present {
		a.LineHeight = v
	}
	return a, nil
}

func fontStyleFromString(s string) (FontStyle, error) {
	switch s {
	case "normal", "":
		return FontStyleNormal, nil
	case "italic":
		return FontStyleItalic, nil
	default:
		return 0, &errors.MalformedPatchError{Key: "fontStyle", Want: `"normal" or "italic"`, Got: s}
	}
}
