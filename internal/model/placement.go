package model

// SharedCutInfo annotates a Placement whose leading edge is joined to the
// previous placement on the same StockInstance via a shared oblique cut.
type SharedCutInfo struct {
	PairedPartID     string  `json:"pairedPartId"`
	PairedInstanceID int     `json:"pairedInstanceId"`
	Savings          float64 `json:"savings"`
}

// Placement is the final resting place of one PartInstance on one
// StockInstance.
type Placement struct {
	PartID             string         `json:"partId"`
	InstanceID         int            `json:"instanceId"`
	StockID            string         `json:"stockId"`
	StockInstanceIndex int            `json:"stockInstanceIndex"`
	StartPosition      float64        `json:"startPosition"`
	Length             float64        `json:"length"`
	SharedCutInfo      *SharedCutInfo `json:"sharedCutInfo,omitempty"`

	// Flipped is the orientation a Chain connection required this
	// instance to be mirrored to (spec.md §8 "Flip faithfulness"); a
	// fabricator reads this to know which pieces to turn over before
	// cutting.
	Flipped FlipState `json:"flipped,omitempty"`

	// ChainID identifies the Chain this placement was committed as part of,
	// if any (empty for loose items). Unlike SharedCutInfo, it is set on
	// every member including the first, so eviction can keep whole chains
	// atomic instead of only protecting placements after the first cut.
	ChainID string `json:"-"`
}

// Ref returns the weak PartInstance reference for this placement.
func (p Placement) Ref() PartInstanceRef {
	return PartInstanceRef{PartID: p.PartID, InstanceID: p.InstanceID}
}

// End returns the position immediately after this placement ends.
func (p Placement) End() float64 {
	return p.StartPosition + p.Length
}
