package model

import "github.com/google/uuid"

// Corner identifies one of the four corner-angle slots on a Part.
type Corner int

const (
	TL Corner = iota
	TR
	BL
	BR
)

func (c Corner) String() string {
	switch c {
	case TL:
		return "TL"
	case TR:
		return "TR"
	case BL:
		return "BL"
	case BR:
		return "BR"
	default:
		return "?"
	}
}

// Row distinguishes the top and bottom corners of a part's end, the axis a
// vertical flip inverts.
type Row int

const (
	RowTop Row = iota
	RowBottom
)

// Side reports which end of the part (Left or Right) this corner sits on.
func (c Corner) Side() Side {
	if c == TL || c == BL {
		return SideL
	}
	return SideR
}

// Row reports which row (Top or Bottom) this corner sits on.
func (c Corner) Row() Row {
	if c == TL || c == TR {
		return RowTop
	}
	return RowBottom
}

// CornerAngles holds the four corner mitre angles of a Part, in degrees.
// 0 denotes "no mitre" (a square 90-degree cut).
type CornerAngles struct {
	TL float64 `json:"tl"`
	TR float64 `json:"tr"`
	BL float64 `json:"bl"`
	BR float64 `json:"br"`
}

// Get returns the angle at the given corner.
func (a CornerAngles) Get(c Corner) float64 {
	switch c {
	case TL:
		return a.TL
	case TR:
		return a.TR
	case BL:
		return a.BL
	case BR:
		return a.BR
	default:
		return 0
	}
}

// NonZero returns the non-zero corner angles, paired with their corner.
func (a CornerAngles) NonZero() []struct {
	Corner Corner
	Angle  float64
} {
	var out []struct {
		Corner Corner
		Angle  float64
	}
	for _, c := range []Corner{TL, TR, BL, BR} {
		if v := a.Get(c); v > 0 {
			out = append(out, struct {
				Corner Corner
				Angle  float64
			}{c, v})
		}
	}
	return out
}

// Part represents a required piece to be cut, possibly with mitred corners.
// Parts are borrowed, immutable inputs for the duration of one optimization run.
type Part struct {
	ID        string       `json:"id"`
	Length    int          `json:"length"`    // mm, integer
	Quantity  int          `json:"quantity"`  // >=1
	Angles    CornerAngles `json:"angles"`
	Thickness float64      `json:"thickness,omitempty"` // mm; 0 means "use default"
}

// NewPart creates a Part with a generated ID and quantity 1 defaults.
func NewPart(length int, angles CornerAngles, qty int) Part {
	if qty < 1 {
		qty = 1
	}
	return Part{
		ID:       uuid.New().String()[:8],
		Length:   length,
		Quantity: qty,
		Angles:   angles,
	}
}

// FlipState records any mirroring applied to a PartInstance to align it
// with a neighboring instance's shared-cut geometry.
type FlipState int

const (
	FlipNone FlipState = iota
	FlipHorizontal
	FlipVertical
	FlipBoth
)

func (f FlipState) String() string {
	switch f {
	case FlipHorizontal:
		return "horizontal"
	case FlipVertical:
		return "vertical"
	case FlipBoth:
		return "both"
	default:
		return "none"
	}
}

// PartInstanceRef weakly identifies one materialized instance of a Part.
type PartInstanceRef struct {
	PartID     string `json:"partId"`
	InstanceID int    `json:"instanceId"` // 0-based, < Part.Quantity
}

// PartInstance is one materialized unit of a Part's Quantity. It predates
// chain building, so it carries no orientation: flip state is only known
// once a Chain resolves it (Chain.Flips), and lands on the instance's
// Placement once committed (Placement.Flipped).
type PartInstance struct {
	PartID     string `json:"partId"`
	InstanceID int    `json:"instanceId"`
}

// Ref returns the weak reference for this instance.
func (pi PartInstance) Ref() PartInstanceRef {
	return PartInstanceRef{PartID: pi.PartID, InstanceID: pi.InstanceID}
}

// ExpandInstances materializes Quantity PartInstances for every Part.
func ExpandInstances(parts []Part) []PartInstance {
	var out []PartInstance
	for _, p := range parts {
		for i := 0; i < p.Quantity; i++ {
			out = append(out, PartInstance{PartID: p.ID, InstanceID: i})
		}
	}
	return out
}

// PartByID indexes a part slice by ID for O(1) lookup during placement/chaining.
func PartByID(parts []Part) map[string]Part {
	m := make(map[string]Part, len(parts))
	for _, p := range parts {
		m[p.ID] = p
	}
	return m
}
