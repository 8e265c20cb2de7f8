package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSalePrice(t *testing.T) {
	testCases := []struct {
		name         string
		basePrice    int64
		discountRate uint
		expected     int64
	}{
		{
			name:         "20% off",
			basePrice:    10000,
			discountRate: 20,
			expected:     8000,
		},
		{
			name:         "no discount",
			basePrice:    10000,
			discountRate: 0,
			expected:     10000,
		},
		{
			name:         "rounds half up",
			basePrice:    1,
			discountRate: 50,
			expected:     1, // 0.5 -> 1
		},
		{
			name:         "rounds down below half",
			basePrice:    99,
			discountRate: 33, // 66.33
			expected:     66,
		},
		{
			name:         "full discount",
			basePrice:    10000,
			discountRate: 100,
			expected:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SalePrice(decimal.NewFromInt(tc.basePrice), tc.discountRate)
			require.True(t, got.Equal(decimal.NewFromInt(tc.expected)),
				"expected %d, got %s", tc.expected, got)
		})
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.NewFromInt(8000), 2)
	require.True(t, got.Equal(decimal.NewFromInt(16000)))
}
