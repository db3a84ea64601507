package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"0.1", 10},
		{"0.10", 10},
		{"150.00", 15000},
		{"75.5", 7550},
		{"-20.00", -2000},
		{".99", 99},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got.Minor(), c.in)
	}

	for _, bad := range []string{"", "abc", "1.234", "1,00"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "776.50", FromMinor(77650).String())
	assert.Equal(t, "0.02", FromMinor(2).String())
	assert.Equal(t, "-20.00", FromMinor(-2000).String())
}

func TestApplyBpsRoundHalfUp(t *testing.T) {
	// 38.825 rounds half up to 38.83
	assert.Equal(t, int64(3883), FromMinor(77650).ApplyBps(500).Minor())
	// 0.30 * 5% = 0.015 -> 0.02
	assert.Equal(t, int64(2), FromMinor(30).ApplyBps(500).Minor())
	// exactly representable stays exact
	assert.Equal(t, int64(1000), FromMinor(10000).ApplyBps(1000).Minor())
	// zero rate
	assert.Equal(t, int64(0), FromMinor(77650).ApplyBps(0).Minor())
}

func TestSplitHalf(t *testing.T) {
	for _, v := range []int64{0, 1, 2, 3, 99, 100, 3883} {
		first, second := FromMinor(v).SplitHalf()
		assert.Equal(t, v, first.Minor()+second.Minor())
		assert.True(t, first >= second)
		assert.True(t, first-second <= 1)
	}
}
