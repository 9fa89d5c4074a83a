package service

import (
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
)

// CalculateTotals normalizes line items and derives subtotal, tax and total.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
//
// Each unit price is rounded to two decimals before the line total is taken;
// the subtotal is summed first and rounded once. A nil taxRate means zero.
func CalculateTotals(items []domain.LineItemInput, taxRate *money.Money) (domain.Calculation, error) {
	if len(items) == 0 {
		return domain.Calculation{}, domain.ErrNoLineItems
	}

	normalized := make([]domain.CalculatedLineItem, 0, len(items))
	sum := money.Zero()

	for _, item := range items {
		unitPrice := item.UnitPrice.Round()
		if unitPrice.IsNegative() {
			return domain.Calculation{}, domain.ErrNegativeUnitPrice
		}
		if item.Quantity <= 0 {
			return domain.Calculation{}, domain.ErrNonPositiveQuantity
		}

		lineTotal := unitPrice.MulInt(item.Quantity).Round()
		sum = sum.Add(lineTotal)

		normalized = append(normalized, domain.CalculatedLineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
	}

	rate := money.Zero()
	if taxRate != nil {
		rate = *taxRate
	}
	if rate.IsNegative() {
		return domain.Calculation{}, domain.ErrNegativeTaxRate
	}

	subtotal := sum.Round()
	tax := subtotal.Mul(rate).Round()
	total := subtotal.Add(tax).Round()

	return domain.Calculation{
		LineItems: normalized,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
	}, nil
}
