// Package decimal provides the exact rational arithmetic ICGS runs its
// whole validation pipeline on: account balances, NFA weights, LP
// coefficients and Simplex tableaux never touch a float.
//
// Decimal wraps github.com/shopspring/decimal. Addition, subtraction and
// multiplication are exact (arbitrary precision, no rounding); division
// rounds half-even to a configurable Scale, set once per engine via
// SetScale. Comparisons against a tolerance are provided by WithinEpsilon
// for the feasibility tests C8 needs.
package decimal

import (
	"fmt"

	shopspring "github.com/shopspring/decimal"
)

// DefaultScale is the minimum precision §4.1 requires (≥28 digits) for
// division rounding.
const DefaultScale = 28

// Decimal is an opaque exact value. The zero value equals Zero.
type Decimal struct {
	v shopspring.Decimal
}

// scale is process-wide only in the sense that shopspring's
// DivisionPrecision is itself a package-level knob; SetScale sets it for
// every Div call made afterwards. A negative scale falls back to
// DefaultScale. One engine instance should call
// SetScale once at construction (see engine.WithDecimalScale) — it is
// not meant to vary mid-pipeline.
func SetScale(scale int) {
	if scale < 0 {
		scale = DefaultScale
	}
	shopspring.DivisionPrecision = scale
}

// Zero is the canonical zero value.
var Zero = Decimal{v: shopspring.Zero}

// New constructs a Decimal from an integer mantissa and base-10 exponent,
// i.e. value = mantissa * 10^exponent.
func New(mantissa int64, exponent int32) Decimal {
	return Decimal{v: shopspring.New(mantissa, exponent)}
}

// NewFromInt constructs a Decimal equal to the given integer.
func NewFromInt(i int64) Decimal {
	return Decimal{v: shopspring.NewFromInt(i)}
}

// Parse parses a decimal literal such as "123.456" or "-0.0001".
func Parse(s string) (Decimal, error) {
	v, err := shopspring.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("decimal: parse %q: %w", s, err)
	}
	return Decimal{v: v}, nil
}

// MustParse is Parse but panics on malformed input; reserved for tests
// and literal constants in code, never for validating external input.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Add returns d + other, exactly.
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{v: d.v.Add(other.v)}
}

// Sub returns d - other, exactly.
func (d Decimal) Sub(other Decimal) Decimal {
	return Decimal{v: d.v.Sub(other.v)}
}

// Mul returns d * other, exactly.
func (d Decimal) Mul(other Decimal) Decimal {
	return Decimal{v: d.v.Mul(other.v)}
}

// Div returns d / other rounded half-even to the configured scale (see
// SetScale). Returns an error if other is zero.
func (d Decimal) Div(other Decimal) (Decimal, error) {
	if other.IsZero() {
		return Decimal{}, fmt.Errorf("decimal: division by zero")
	}
	prec := int32(shopspring.DivisionPrecision)
	q, r := d.v.QuoRem(other.v, prec+1)
	if r.IsZero() {
		// Exact at one extra digit, so a tie is possible: round half-even.
		return Decimal{v: q.RoundBank(prec)}, nil
	}
	// Not a tie: DivRound's half-away-from-zero picks the same digit.
	return Decimal{v: d.v.DivRound(other.v, prec)}, nil
}

// Abs returns the absolute value of d.
func (d Decimal) Abs() Decimal {
	return Decimal{v: d.v.Abs()}
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return Decimal{v: d.v.Neg()}
}

// Sign returns -1, 0, or 1. Zero and negative-zero both report 0.
func (d Decimal) Sign() int {
	return d.v.Sign()
}

// IsZero reports whether d is canonically zero (0 == -0).
func (d Decimal) IsZero() bool {
	return d.v.IsZero()
}

// IsNegative reports whether d < 0.
func (d Decimal) IsNegative() bool {
	return d.v.Sign() < 0
}

// Cmp returns -1, 0, or 1 as d is less than, equal to, or greater than
// other — exact comparison, no tolerance.
func (d Decimal) Cmp(other Decimal) int {
	return d.v.Cmp(other.v)
}

// Equal reports exact equality (no tolerance).
func (d Decimal) Equal(other Decimal) bool {
	return d.v.Equal(other.v)
}

// GreaterThan reports d > other.
func (d Decimal) GreaterThan(other Decimal) bool {
	return d.v.Cmp(other.v) > 0
}

// LessThan reports d < other.
func (d Decimal) LessThan(other Decimal) bool {
	return d.v.Cmp(other.v) < 0
}

// WithinEpsilon reports whether |d - other| <= epsilon. This is the
// tolerance comparison §3 requires for feasibility tests; epsilon must
// be non-negative.
func (d Decimal) WithinEpsilon(other, epsilon Decimal) bool {
	diff := d.Sub(other).Abs()
	return diff.Cmp(epsilon) <= 0
}

// Float64 converts to float64, losing precision. Reserved for the
// simplex package's pivot-stability geometry classifier, which is an
// approximate heuristic by design (SPEC_FULL.md C.5) — never use this
// for a feasibility or optimality decision.
func (d Decimal) Float64() float64 {
	f, _ := d.v.Float64()
	return f
}

// String renders the canonical decimal representation.
func (d Decimal) String() string {
	return d.v.String()
}
