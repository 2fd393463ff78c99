package model

import "github.com/google/uuid"

// AngleMatch is a candidate shared-cut pairing between two corner slots
// belonging to two distinct PartInstances. It is transient: produced by
// the matcher and consumed by the chain builder.
type AngleMatch struct {
	Part1Ref PartInstanceRef
	Slot1    Corner
	Part2Ref PartInstanceRef
	Slot2    Corner

	RepresentativeAngle float64
	Exact               bool
	AngleDiff           float64

	// Savings is the raw (uncapped-by-kerf) material saved by sharing this
	// cut, per savings_for(angle, thickness) — used to populate
	// Connection.Savings when a match is committed into a Chain.
	Savings float64

	// Score ranks matches for selection order: Savings adjusted by a small
	// tie-break penalty for angle drift (see matcher.anglePenalty).
	Score float64
}

// Other returns the instance ref and slot on the opposite side of the match.
func (m AngleMatch) Other(ref PartInstanceRef) (PartInstanceRef, Corner, bool) {
	switch ref {
	case m.Part1Ref:
		return m.Part2Ref, m.Slot2, true
	case m.Part2Ref:
		return m.Part1Ref, m.Slot1, true
	default:
		return PartInstanceRef{}, 0, false
	}
}

// Side identifies which end of a PartInstance a Connection attaches to.
type Side int

const (
	SideL Side = iota
	SideR
)

func (s Side) String() string {
	if s == SideL {
		return "L"
	}
	return "R"
}

// OppositeSide returns the other side.
func OppositeSide(s Side) Side {
	if s == SideL {
		return SideR
	}
	return SideL
}

func oppositeRow(r Row) Row {
	if r == RowTop {
		return RowBottom
	}
	return RowTop
}

// EffectiveSide returns the side a corner presents once its instance's flip
// is applied: a horizontal (or both-axis) flip mirrors Left and Right.
func EffectiveSide(c Corner, flip FlipState) Side {
	side := c.Side()
	if flip == FlipHorizontal || flip == FlipBoth {
		return OppositeSide(side)
	}
	return side
}

// EffectiveRow returns the row a corner presents once its instance's flip is
// applied: a vertical (or both-axis) flip mirrors Top and Bottom.
func EffectiveRow(c Corner, flip FlipState) Row {
	row := c.Row()
	if flip == FlipVertical || flip == FlipBoth {
		return oppositeRow(row)
	}
	return row
}

// ResolveOrientation determines the side and flip state an incoming corner
// must present to join a reference end already fixed at refSide/refRow: the
// two ends must attach on opposite sides with matching rows so the mitred
// faces run flush across the joint (spec.md §4.2 orientation rule and the
// "flip faithfulness" testable property).
func ResolveOrientation(refSide Side, refRow Row, otherCorner Corner) (otherSide Side, otherFlip FlipState) {
	wantSide := OppositeSide(refSide)

	flip := FlipNone
	if otherCorner.Side() != wantSide {
		flip = FlipHorizontal
	}
	if otherCorner.Row() != refRow {
		if flip == FlipHorizontal {
			flip = FlipBoth
		} else {
			flip = FlipVertical
		}
	}
	return wantSide, flip
}

// Connection joins two adjacent PartInstances in a Chain via a shared cut.
type Connection struct {
	FromRef     PartInstanceRef `json:"fromRef"`
	FromSide    Side            `json:"fromSide"`
	ToRef       PartInstanceRef `json:"toRef"`
	ToSide      Side            `json:"toSide"`
	SharedAngle float64         `json:"sharedAngle"`
	Savings     float64         `json:"savings"` // raw, uncapped by kerf
}

// ChainStructure distinguishes same-part chains built in Phase A from
// cross-type chains assembled in Phase B.
type ChainStructure int

const (
	StructureLinear ChainStructure = iota
	StructureMixed
)

func (s ChainStructure) String() string {
	if s == StructureMixed {
		return "mixed"
	}
	return "linear"
}

// Chain is an ordered sequence of PartInstances joined by shared cuts.
type Chain struct {
	ID          string
	Instances   []PartInstanceRef
	Connections []Connection
	Structure   ChainStructure

	// TotalLength is the physically realizable span occupied by the chain:
	// sum of member part lengths plus the kerf-clamped gap at each internal
	// connection (see ConnectionGap).
	TotalLength float64

	// TotalSavings is the sum of raw (uncapped) connection savings, used
	// for tallying and for the idealized utilization metric.
	TotalSavings float64

	// Flips records, for members whose orientation had to be mirrored to
	// align with a neighbor's shared cut, which axis was mirrored. Members
	// absent from this map are unflipped (FlipNone).
	Flips map[PartInstanceRef]FlipState
}

// ConnectionGap returns the physically realizable gap a shared cut leaves
// between two chained parts: savings reduces the kerf but can never drive
// the gap negative (§8 Kerf law — cuts cannot overlap).
func ConnectionGap(savings, kerf float64) float64 {
	gap := kerf - savings
	if gap < 0 {
		return 0
	}
	return gap
}

// NewChain creates an empty chain with a generated ID.
func NewChain(structure ChainStructure) *Chain {
	return &Chain{ID: uuid.New().String()[:8], Structure: structure, Flips: make(map[PartInstanceRef]FlipState)}
}

// Contains reports whether the given instance ref is a member of this chain.
func (c *Chain) Contains(ref PartInstanceRef) bool {
	for _, r := range c.Instances {
		if r == ref {
			return true
		}
	}
	return false
}

// Len returns the number of instances in the chain.
func (c *Chain) Len() int {
	return len(c.Instances)
}

// SplitAt splits the chain at connection index i (between Instances[i] and
// Instances[i+1]), returning
// two new chains (the lowest-savings connection is a good candidate index
// for the Placer's fallback repacker). Connection i itself is dropped:
// its savings is lost since the shared cut no longer exists.
func (c *Chain) SplitAt(i int) (left, right *Chain) {
	if i < 0 || i >= len(c.Connections) {
		return c, nil
	}
	left = NewChain(c.Structure)
	right = NewChain(c.Structure)

	left.Instances = append(left.Instances, c.Instances[:i+1]...)
	left.Connections = append(left.Connections, c.Connections[:i]...)
	for _, conn := range left.Connections {
		left.TotalSavings += conn.Savings
	}

	right.Instances = append(right.Instances, c.Instances[i+1:]...)
	right.Connections = append(right.Connections, c.Connections[i+1:]...)
	for _, conn := range right.Connections {
		right.TotalSavings += conn.Savings
	}

	for _, ref := range left.Instances {
		if f, ok := c.Flips[ref]; ok {
			left.Flips[ref] = f
		}
	}
	for _, ref := range right.Instances {
		if f, ok := c.Flips[ref]; ok {
			right.Flips[ref] = f
		}
	}

	return left, right
}

// LowestSavingsConnection returns the index of the connection with the
// smallest savings, or -1 if the chain has no connections.
func (c *Chain) LowestSavingsConnection() int {
	if len(c.Connections) == 0 {
		return -1
	}
	best := 0
	for i, conn := range c.Connections {
		if conn.Savings < c.Connections[best].Savings {
			best = i
		}
	}
	return best
}
