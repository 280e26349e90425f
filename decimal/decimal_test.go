package decimal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/norkamer/icgs/decimal"
)

func TestArithmeticExact(t *testing.T) {
	require := require.New(t)

	a := decimal.MustParse("10.00000000000000000000000001")
	b := decimal.MustParse("0.00000000000000000000000002")

	require.Equal("10.00000000000000000000000003", a.Add(b).String())
	require.Equal("9.99999999999999999999999999", a.Sub(b).String())
}

func TestDivRoundsHalfEvenAtScale(t *testing.T) {
	decimal.SetScale(4)
	defer decimal.SetScale(decimal.DefaultScale)

	one := decimal.NewFromInt(1)
	three := decimal.NewFromInt(3)

	got, err := one.Div(three)
	require.NoError(t, err)
	require.Equal(t, "0.3333", got.String())
}

func TestDivByZero(t *testing.T) {
	_, err := decimal.NewFromInt(1).Div(decimal.Zero)
	require.Error(t, err)
}

func TestZeroCanonical(t *testing.T) {
	require := require.New(t)

	neg := decimal.NewFromInt(0).Neg()
	require.True(neg.IsZero())
	require.Equal(0, neg.Sign())
	require.True(neg.Equal(decimal.Zero))
}

func TestWithinEpsilon(t *testing.T) {
	require := require.New(t)

	eps := decimal.MustParse("0.0000000001")
	a := decimal.MustParse("100")
	b := decimal.MustParse("100.00000000005")

	require.True(a.WithinEpsilon(b, eps))
	require.False(a.WithinEpsilon(decimal.MustParse("100.1"), eps))
}
