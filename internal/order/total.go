package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeTotal sums price*quantity over the items. Prices come out of
// NUMERIC columns as strings; decimal keeps the math exact.
func ComputeTotal(items []Item) (string, error) {
	total := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return "", fmt.Errorf("invalid price %q: %w", it.Price, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.StringFixed(2), nil
}

// ApplyPercentOff discounts total by percent (0..100), rounding to
// cents. "100.00" with 15 percent off becomes "85.00".
func ApplyPercentOff(total string, percent string) (string, error) {
	t, err := decimal.NewFromString(total)
	if err != nil {
		return "", fmt.Errorf("invalid total %q: %w", total, err)
	}
	p, err := decimal.NewFromString(percent)
	if err != nil {
		return "", fmt.Errorf("invalid percent %q: %w", percent, err)
	}
	hundred := decimal.NewFromInt(100)
	if p.IsNegative() || p.GreaterThan(hundred) {
		return "", fmt.Errorf("percent out of range: %s", percent)
	}
	factor := hundred.Sub(p).Div(hundred)
	return t.Mul(factor).Round(2).StringFixed(2), nil
}
