package model

// Thickness resolution for the shared-cut savings calculation (§4.1,
// resolved Open Question in SPEC_FULL.md §12): a Part's own Thickness is
// used when set; otherwise a length-dependent default stands in, then
// both are scaled up for steep mitres.
const (
	shortPartMaxLength = 500  // mm
	longPartMinLength  = 2000 // mm

	shortPartThickness  = 12.0
	mediumPartThickness = 20.0
	longPartThickness   = 28.0

	steepAngleThreshold  = 45.0 // degrees; below this, scale thickness up
	verySteepThreshold   = 30.0
	steepScale           = 1.2
	verySteepScale       = 1.5
)

// ThicknessDefault returns the length-dependent default thickness for a
// part that does not specify one explicitly.
func ThicknessDefault(length int) float64 {
	switch {
	case length <= shortPartMaxLength:
		return shortPartThickness
	case length >= longPartMinLength:
		return longPartThickness
	default:
		return mediumPartThickness
	}
}

// EffectiveThickness resolves the thickness to use for a part's corner at
// the given angle: the part's own Thickness if set, else the length
// default, scaled up for steep mitres.
func EffectiveThickness(p Part, angle float64) float64 {
	t := p.Thickness
	if t <= 0 {
		t = ThicknessDefault(p.Length)
	}
	switch {
	case angle > 0 && angle < verySteepThreshold:
		t *= verySteepScale
	case angle > 0 && angle < steepAngleThreshold:
		t *= steepScale
	}
	return t
}
