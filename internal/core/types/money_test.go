package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWholeUnits(t *testing.T) {
	cases := []struct {
		name      string
		paid      string
		unitPrice string
		want      int
	}{
		{"exact single unit", "5000", "5000", 1},
		{"partial unit rounds down", "6000", "5000", 1},
		{"just under a unit", "4999.99", "5000", 0},
		{"multiple units", "15000", "5000", 3},
		{"zero paid", "0", "5000", 0},
		{"fractional price", "10", "3.33", 3},
		{"zero unit price", "100", "0", 0},
		{"negative unit price", "100", "-5", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WholeUnits(MustMoney(tc.paid), MustMoney(tc.unitPrice))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinMoney(t *testing.T) {
	a := MustMoney("10.50")
	b := MustMoney("10.51")

	assert.True(t, MinMoney(a, b).Equal(a))
	assert.True(t, MinMoney(b, a).Equal(a))
	assert.True(t, MinMoney(a, a).Equal(a))
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", m.String())

	_, err = NewMoneyFromString("not-a-number")
	require.Error(t, err)
}

func TestDecimalArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is exactly 0.3 in decimal, unlike float64.
	sum := MustMoney("0.1").Add(MustMoney("0.2"))
	assert.True(t, sum.Equal(MustMoney("0.3")))
}
