// Package rate implements the fixed-point fractional rates used by the tax
// engine. A Rate is stored as an integer count of 1e-18 units, mirroring the
// precision of the on-chain decimal type the rate config is exchanged with.
//
// Every multiplication against a token amount truncates toward zero. The
// tax split invariants (reflection + burn + liquidity == taxed) depend on
// consistent floor truncation, so no rounding variant is provided.
package rate

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// AtomsPerUnit is the number of atoms in the rate 1.0 (18 decimal places).
const AtomsPerUnit uint64 = 1_000_000_000_000_000_000

var (
	// ErrMalformed is returned when a rate string cannot be parsed.
	ErrMalformed = errors.New("malformed rate")

	// ErrTooPrecise is returned when a rate string has more than 18
	// fractional digits.
	ErrTooPrecise = errors.New("rate exceeds 18 decimal places")

	// ErrOverflow is returned when a rate value does not fit.
	ErrOverflow = errors.New("rate overflow")
)

// Rate is a non-negative fixed-point fraction with 18 decimal places.
// The zero value is the rate 0.
type Rate struct {
	atoms uint64
}

// Zero returns the rate 0.
func Zero() Rate { return Rate{} }

// One returns the rate 1.
func One() Rate { return Rate{atoms: AtomsPerUnit} }

// FromAtoms builds a rate from a raw count of 1e-18 units.
func FromAtoms(atoms uint64) Rate { return Rate{atoms: atoms} }

// Parse parses a decimal string such as "0.1", "1" or "0.125" into a Rate.
func Parse(s string) (Rate, error) {
	if s == "" {
		return Rate{}, ErrMalformed
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if fracPart == "" {
			return Rate{}, ErrMalformed
		}
	}
	if intPart == "" {
		return Rate{}, ErrMalformed
	}
	if len(fracPart) > 18 {
		return Rate{}, ErrTooPrecise
	}

	whole, err := parseDigits(intPart)
	if err != nil {
		return Rate{}, err
	}
	frac, err := parseDigits(fracPart)
	if err != nil {
		return Rate{}, err
	}
	// Scale the fractional digits up to 18 places.
	for i := len(fracPart); i < 18; i++ {
		frac *= 10
	}

	if whole > math.MaxUint64/AtomsPerUnit {
		return Rate{}, ErrOverflow
	}
	atoms := whole * AtomsPerUnit
	if atoms > math.MaxUint64-frac {
		return Rate{}, ErrOverflow
	}
	return Rate{atoms: atoms + frac}, nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(s string) Rate {
	r, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("rate: MustParse(%q): %v", s, err))
	}
	return r
}

func parseDigits(s string) (uint64, error) {
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrMalformed
		}
		if v > (math.MaxUint64-uint64(c-'0'))/10 {
			return 0, ErrOverflow
		}
		v = v*10 + uint64(c-'0')
	}
	return v, nil
}

// Atoms returns the raw count of 1e-18 units.
func (r Rate) Atoms() uint64 { return r.atoms }

// IsZero reports whether the rate is exactly 0.
func (r Rate) IsZero() bool { return r.atoms == 0 }

// GreaterThanOne reports whether the rate exceeds 1.
func (r Rate) GreaterThanOne() bool { return r.atoms > AtomsPerUnit }

// Add returns r + other, saturating at the maximum representable rate.
// Callers validate sums against One before storing, so saturation is only
// reachable with already-invalid inputs.
func (r Rate) Add(other Rate) Rate {
	if r.atoms > math.MaxUint64-other.atoms {
		return Rate{atoms: math.MaxUint64}
	}
	return Rate{atoms: r.atoms + other.atoms}
}

// MulFloor multiplies an integer token amount by the rate, truncating the
// result toward zero: floor(amount * r). For any rate <= 1 the result is
// <= amount and cannot overflow.
func (r Rate) MulFloor(amount uint64) uint64 {
	hi, lo := bits.Mul64(amount, r.atoms)
	if hi >= AtomsPerUnit {
		// Quotient would not fit in 64 bits. Rates above one are rejected
		// at every admin surface, so this is unreachable for stored state.
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, AtomsPerUnit)
	return q
}

// String formats the rate as a decimal with trailing zeros trimmed.
func (r Rate) String() string {
	whole := r.atoms / AtomsPerUnit
	frac := r.atoms % AtomsPerUnit
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	s := fmt.Sprintf("%d.%018d", whole, frac)
	return strings.TrimRight(s, "0")
}

// MarshalText implements encoding.TextMarshaler using the decimal form,
// matching the wire format of the rate config records.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rate) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
