package charset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/norkamer/icgs/charset"
)

func TestDefineAndAllocate(t *testing.T) {
	require := require.New(t)

	m := charset.NewManager()
	require.NoError(m.Define("agriculture", []rune{'A', 'B', 'C'}))

	r1, err := m.Allocate("agriculture")
	require.NoError(err)
	require.Equal('A', r1)

	r2, err := m.Allocate("agriculture")
	require.NoError(err)
	require.Equal('B', r2)
}

func TestDuplicateSetRejected(t *testing.T) {
	m := charset.NewManager()
	require.NoError(t, m.Define("industry", []rune{'X'}))
	err := m.Define("industry", []rune{'Y'})
	require.ErrorIs(t, err, charset.ErrDuplicateSet)
}

func TestReusedCharRejectedAcrossSets(t *testing.T) {
	m := charset.NewManager()
	require.NoError(t, m.Define("a", []rune{'Z'}))
	err := m.Define("b", []rune{'Z'})
	require.ErrorIs(t, err, charset.ErrReusedChar)
}

func TestReusedCharRejectedWithinSet(t *testing.T) {
	m := charset.NewManager()
	err := m.Define("a", []rune{'Q', 'Q'})
	require.ErrorIs(t, err, charset.ErrReusedChar)
}

func TestExhaustedSet(t *testing.T) {
	m := charset.NewManager()
	require.NoError(t, m.Define("tiny", []rune{'1'}))
	_, err := m.Allocate("tiny")
	require.NoError(t, err)
	_, err = m.Allocate("tiny")
	require.ErrorIs(t, err, charset.ErrSetExhausted)
}

func TestUnknownSet(t *testing.T) {
	m := charset.NewManager()
	_, err := m.Allocate("nope")
	require.ErrorIs(t, err, charset.ErrUnknownSet)
}
