package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// AccrueInterest computes the interest owed to a savings account for a
// single accrual event at the moment requested:
//
//	round(balance * rate / 100, 2 decimals, half-up)
//
// It returns zero for non-savings accounts and for non-positive
// balances. The function is pure and applies no accrual-period policy;
// calling it twice in succession yields two independent amounts.
func AccrueInterest(a *Account) decimal.Decimal {
	if a.Kind != KindSavings || !a.Balance.IsPositive() {
		return decimal.Zero
	}

	if !a.InterestRate.IsPositive() {
		return decimal.Zero
	}

	return a.Balance.Mul(a.InterestRate).Div(oneHundred).Round(2)
}
