package model

import "fmt"

// ValidatePart checks the invariants from spec.md §3/§7: positive integer
// length, quantity>=1, angles in [0,89], and at most one non-zero vertical
// mitre per side (TL/BL cannot both be non-zero; same for TR/BR).
func ValidatePart(p Part) error {
	if p.Length <= 0 {
		return fmt.Errorf("%w: part %s has non-positive length %d", ErrInvalidPart, p.ID, p.Length)
	}
	if p.Quantity < 1 {
		return fmt.Errorf("%w: part %s has quantity %d, must be >=1", ErrInvalidPart, p.ID, p.Quantity)
	}
	for _, c := range []Corner{TL, TR, BL, BR} {
		a := p.Angles.Get(c)
		if a < 0 || a > 89 {
			return fmt.Errorf("%w: part %s has angle %v at %s out of [0,89]", ErrInvalidPart, p.ID, a, c)
		}
	}
	if p.Angles.TL > 0 && p.Angles.BL > 0 {
		return fmt.Errorf("%w: part %s has mitres on both TL and BL (left side)", ErrInvalidPart, p.ID)
	}
	if p.Angles.TR > 0 && p.Angles.BR > 0 {
		return fmt.Errorf("%w: part %s has mitres on both TR and BR (right side)", ErrInvalidPart, p.ID)
	}
	return nil
}

// ValidateStock checks a Stock's invariants: positive length, non-negative quantity.
func ValidateStock(s Stock) error {
	if s.Length <= 0 {
		return fmt.Errorf("%w: stock %s has non-positive length %d", ErrInvalidStock, s.ID, s.Length)
	}
	if s.Quantity < 0 {
		return fmt.Errorf("%w: stock %s has negative quantity %d", ErrInvalidStock, s.ID, s.Quantity)
	}
	return nil
}

// ValidateConstraints checks that kerf/end-loss/tolerance are all non-negative.
func ValidateConstraints(c Constraints) error {
	if c.CuttingLoss < 0 {
		return fmt.Errorf("%w: cuttingLoss must be >=0", ErrInvalidConfig)
	}
	if c.FrontEndLoss < 0 {
		return fmt.Errorf("%w: frontEndLoss must be >=0", ErrInvalidConfig)
	}
	if c.BackEndLoss < 0 {
		return fmt.Errorf("%w: backEndLoss must be >=0", ErrInvalidConfig)
	}
	if c.AngleTolerance < 0 {
		return fmt.Errorf("%w: angleTolerance must be >=0", ErrInvalidConfig)
	}
	return nil
}

// ValidateAll validates every part, stock and the run's constraints,
// returning the first error encountered.
func ValidateAll(parts []Part, stocks []Stock, cfg Config) error {
	for _, p := range parts {
		if err := ValidatePart(p); err != nil {
			return err
		}
	}
	for _, s := range stocks {
		if err := ValidateStock(s); err != nil {
			return err
		}
	}
	return ValidateConstraints(cfg.Constraints)
}
