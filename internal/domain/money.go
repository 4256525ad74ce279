package domain

import (
	"fmt"
	"math"
)

// DollarsToCents converts an API-level dollar amount into the integer
// cents the ledger arithmetic runs on. Sub-cent precision is rejected
// rather than rounded, so no money appears or vanishes at the boundary.
func DollarsToCents(f float64) (int64, error) {
	// Work at tenth-of-a-cent resolution. Rounding first strips float
	// representation noise (1.10 scales to 1099.999...), after which a
	// nonzero remainder means the caller really sent a third decimal.
	tenths := int64(math.Round(f * 1000))
	if tenths%10 != 0 {
		return 0, fmt.Errorf("monetary values must have at most 2 decimal places")
	}

	return tenths / 10, nil
}

// CentsToDollars converts an int64 cents value to a float64 dollar amount.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100.0
}
