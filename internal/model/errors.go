package model

import "errors"

// Error taxonomy per spec.md §7. InvalidPart, InvalidStock and InvalidConfig
// abort a run before placement begins; PartTooLong and ExhaustedFiniteStock
// are surfaced per-item in the result instead, since the engine's contract
// is "every part placed". A cancelled run is not an error either: it comes
// back as a partial result with Success=false and a "cancelled" warning.
var (
	ErrInvalidPart   = errors.New("invalid part")
	ErrInvalidStock  = errors.New("invalid stock")
	ErrInvalidConfig = errors.New("invalid config")
)
