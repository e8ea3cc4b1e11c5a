package geom

// This file defines unit-safe lengths that are converted to pixels at a given DPI.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitPx      Unit = iota // CSS pixel, 1/96 in
	UnitPt                  // points, 1/72 in
	UnitMM                  // millimeters
	UnitCM                  // centimeters
	UnitIN                  // inches
	UnitPercent             // relative to a reference size
)

// Conversion constants.
const (
	PxPerInch = 96.0
	PtPerInch = 72.0
	MmPerInch = 25.4
)

// String returns the short suffix of a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitPt:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPercent:
		return "%"
	default:
		panic("geom: unknown unit")
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Px, Pt, MM and Percent are shorthands used by builders and tests.
func Px(v float64) Length      { return Length{Value: v, Unit: UnitPx} }
func Pt(v float64) Length      { return Length{Value: v, Unit: UnitPt} }
func MM(v float64) Length      { return Length{Value: v, Unit: UnitMM} }
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

func (l Length) IsZero() bool { return l.Value == 0 }

// Pixels converts the length to pixels at dpi. Percentages resolve against reference.
func (l Length) Pixels(dpi, reference float64) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value * dpi / PxPerInch
	case UnitPt:
		return l.Value * dpi / PtPerInch
	case UnitMM:
		return l.Value * dpi / MmPerInch
	case UnitCM:
		return l.Value * 10 * dpi / MmPerInch
	case UnitIN:
		return l.Value * dpi
	case UnitPercent:
		return l.Value / 100 * reference
	default:
		panic("geom: unknown unit")
	}
}

// Box is a four-sided length, used for margin and padding.
type Box struct {
	Left   Length `json:"left"`
	Top    Length `json:"top"`
	Right  Length `json:"right"`
	Bottom Length `json:"bottom"`
}

// Uniform returns a Box with the same length on every side.
func Uniform(l Length) Box { return Box{Left: l, Top: l, Right: l, Bottom: l} }

// Symmetric returns a Box with vertical and horizontal lengths, in CSS order.
func Symmetric(vertical, horizontal Length) Box {
	return Box{Left: horizontal, Top: vertical, Right: horizontal, Bottom: vertical}
}

// Pixels resolves the box; horizontal sides use ref.Width, vertical sides ref.Height.
func (b Box) Pixels(dpi float64, ref Size) Thickness {
	return Thickness{
		Left:   b.Left.Pixels(dpi, ref.Width),
		Top:    b.Top.Pixels(dpi, ref.Height),
		Right:  b.Right.Pixels(dpi, ref.Width),
		Bottom: b.Bottom.Pixels(dpi, ref.Height),
	}
}

// PixelsToMM converts a pixel distance at dpi to millimeters.
func PixelsToMM(px, dpi float64) float64 { return px * MmPerInch / dpi }

// MMToPixels converts millimeters to pixels at dpi.
func MMToPixels(mm, dpi float64) float64 { return mm * dpi / MmPerInch }
