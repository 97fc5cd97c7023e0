package format

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletGradient(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{
			name:    "checksummed",
			address: "0x7BfA7C4f149E7415b73bdeDfe609237e29CBF34A",
			want:    "linear-gradient(135deg, #7bfa7c, #cbf34a)",
		},
		{
			name:    "lowercase renders the same",
			address: "0x7bfa7c4f149e7415b73bdedfe609237e29cbf34a",
			want:    "linear-gradient(135deg, #7bfa7c, #cbf34a)",
		},
		{"empty", "", FallbackGradient},
		{"no prefix", "7BfA7C4f149E7415b73bdeDfe609237e29CBF34A", FallbackGradient},
		{"short", "0x7BfA7C4f", FallbackGradient},
		{"non hex", "0xZZfA7C4f149E7415b73bdeDfe609237e29CBF34A", FallbackGradient},
		{"too long", "0x7BfA7C4f149E7415b73bdeDfe609237e29CBF34A00", FallbackGradient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WalletGradient(tt.address))
			assert.Equal(t, WalletGradient(tt.address), WalletGradient(tt.address))
		})
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		amount   *big.Int
		decimals int
		want     string
	}{
		{big.NewInt(1500000), 6, "1.5"},
		{big.NewInt(1000000), 6, "1"},
		{big.NewInt(1), 6, "0.000001"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(-2500), 3, "-2.5"},
		{big.NewInt(42), 0, "42"},
		{nil, 6, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUnits(tt.amount, tt.decimals))
	}
}

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, "1500000", v.String())

	v, err = ParseUnits(".25", 2)
	require.NoError(t, err)
	assert.Equal(t, "25", v.String())

	v, err = ParseUnits("100", 18)
	require.NoError(t, err)
	assert.Equal(t, "100"+"000000000000000000", v.String())

	_, err = ParseUnits("1.1234567", 6)
	assert.Error(t, err)
	_, err = ParseUnits("abc", 6)
	assert.Error(t, err)
	_, err = ParseUnits("-1", 6)
	assert.Error(t, err)
	_, err = ParseUnits("", 6)
	assert.Error(t, err)
}

func TestParseUnitsRejectsNonDecimalNotation(t *testing.T) {
	for _, in := range []string{"Inf", "+Inf", "NaN", "0x1p4", "0x10", "1e6", "+1", ".", "1.", "1.2.3", "1,5", " 1 .5"} {
		_, err := ParseUnits(in, 18)
		assert.Error(t, err, in)
	}
}
