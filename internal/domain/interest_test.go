package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccrueInterest(t *testing.T) {
	tests := []struct {
		name     string
		kind     AccountKind
		balance  string
		rate     string
		expected string
	}{
		{
			name:     "five percent on ten thousand",
			kind:     KindSavings,
			balance:  "10000",
			rate:     "5",
			expected: "500",
		},
		{
			name:     "rounds half up to two decimals",
			kind:     KindSavings,
			balance:  "100.25",
			rate:     "2.5",
			expected: "2.51", // 2.50625 -> 2.51
		},
		{
			name:     "half cent rounds up",
			kind:     KindSavings,
			balance:  "10.10",
			rate:     "2.5",
			expected: "0.25", // 0.2525 -> 0.25
		},
		{
			name:     "zero balance yields zero",
			kind:     KindSavings,
			balance:  "0",
			rate:     "5",
			expected: "0",
		},
		{
			name:     "zero rate yields zero",
			kind:     KindSavings,
			balance:  "10000",
			rate:     "0",
			expected: "0",
		},
		{
			name:     "current account yields zero",
			kind:     KindCurrent,
			balance:  "10000",
			rate:     "5",
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{
				Kind:         tt.kind,
				Balance:      decimal.RequireFromString(tt.balance),
				InterestRate: decimal.RequireFromString(tt.rate),
			}

			got := AccrueInterest(acc)
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAccrueInterest_TwiceCompounds(t *testing.T) {
	acc := &Account{
		Kind:         KindSavings,
		Balance:      decimal.NewFromInt(10000),
		InterestRate: decimal.NewFromInt(5),
	}

	first := AccrueInterest(acc)
	acc.Balance = acc.Balance.Add(first)
	second := AccrueInterest(acc)

	if !first.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected first accrual 500, got %s", first)
	}
	if !second.Equal(decimal.NewFromInt(525)) {
		t.Errorf("expected second accrual 525, got %s", second)
	}
}
