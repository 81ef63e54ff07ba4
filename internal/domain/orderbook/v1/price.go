package orderbookv1

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a limit price expressed in minor units (cents). Using a fixed
// integer representation keeps equal decimal prices keyed to the identical
// book level on every platform; floats are never used in the matching path.
type Price int64

// priceScale is the number of minor units per major unit.
const priceScale = 100

var (
	// ErrInvalidPrice is returned for non-positive or malformed prices.
	ErrInvalidPrice = errors.New("price must be a positive decimal")
)

// ParsePrice parses a decimal string such as "100", "100.2" or "100.25"
// into a Price. At most two fractional digits are accepted.
func ParsePrice(s string) (Price, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	cents := int64(0)
	if frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("%w: %q has sub-cent precision", ErrInvalidPrice, s)
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
		if len(frac) == 1 {
			cents *= 10
		}
	}

	// Reject values whose minor-unit count would not fit in int64; the
	// multiplication below must never wrap.
	if units > (math.MaxInt64-cents)/priceScale {
		return 0, fmt.Errorf("%w: %q exceeds the representable range", ErrInvalidPrice, s)
	}

	p := Price(units*priceScale + cents)
	if p <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return p, nil
}

// PriceFromCents builds a Price from a raw minor-unit count.
func PriceFromCents(cents int64) Price {
	return Price(cents)
}

// Cents returns the raw minor-unit count.
func (p Price) Cents() int64 {
	return int64(p)
}

// String renders the price as a decimal with two fractional digits.
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/priceScale, int64(p)%priceScale)
}

// IsValid reports whether the price is strictly positive.
func (p Price) IsValid() bool {
	return p > 0
}
