package service

import (
	"testing"

	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"github.com/smallbiznis/invoiced/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.FromString(s)
	require.NoError(t, err)
	return m
}

func TestCalculateTotals(t *testing.T) {
	items := []domain.LineItemInput{
		{Description: "Design", Quantity: 5, UnitPrice: mustMoney(t, "120.50")},
		{Description: "Dev", Quantity: 3, UnitPrice: mustMoney(t, "200")},
	}
	rate := mustMoney(t, "0.05")

	calc, err := CalculateTotals(items, &rate)
	require.NoError(t, err)

	assert.Equal(t, "1202.50", calc.Subtotal.String())
	assert.Equal(t, "60.13", calc.Tax.String())
	assert.Equal(t, "1262.63", calc.Total.String())

	require.Len(t, calc.LineItems, 2)
	assert.Equal(t, "602.50", calc.LineItems[0].LineTotal.String())
	assert.Equal(t, "600.00", calc.LineItems[1].LineTotal.String())
	assert.Equal(t, "120.50", calc.LineItems[0].UnitPrice.String())
}

func TestCalculateTotalsDefaultsTaxToZero(t *testing.T) {
	items := []domain.LineItemInput{
		{Description: "Consulting", Quantity: 2, UnitPrice: mustMoney(t, "75")},
	}

	calc, err := CalculateTotals(items, nil)
	require.NoError(t, err)

	assert.Equal(t, "150.00", calc.Subtotal.String())
	assert.Equal(t, "0.00", calc.Tax.String())
	assert.Equal(t, "150.00", calc.Total.String())
}

func TestCalculateTotalsRoundsUnitPriceBeforeMultiplying(t *testing.T) {
	items := []domain.LineItemInput{
		{Description: "Fractional", Quantity: 3, UnitPrice: mustMoney(t, "9.999")},
	}

	calc, err := CalculateTotals(items, nil)
	require.NoError(t, err)

	// 9.999 rounds to 10.00 first; 3 * 10.00 = 30.00, not round(29.997).
	assert.Equal(t, "10.00", calc.LineItems[0].UnitPrice.String())
	assert.Equal(t, "30.00", calc.LineItems[0].LineTotal.String())
	assert.Equal(t, "30.00", calc.Subtotal.String())
}

func TestCalculateTotalsValidation(t *testing.T) {
	valid := []domain.LineItemInput{
		{Description: "Work", Quantity: 1, UnitPrice: mustMoney(t, "10")},
	}

	t.Run("empty line items", func(t *testing.T) {
		_, err := CalculateTotals(nil, nil)
		assert.ErrorIs(t, err, domain.ErrNoLineItems)
	})

	t.Run("negative unit price", func(t *testing.T) {
		items := []domain.LineItemInput{
			{Description: "Refund", Quantity: 1, UnitPrice: mustMoney(t, "-5")},
		}
		_, err := CalculateTotals(items, nil)
		assert.ErrorIs(t, err, domain.ErrNegativeUnitPrice)
	})

	t.Run("zero quantity", func(t *testing.T) {
		items := []domain.LineItemInput{
			{Description: "Nothing", Quantity: 0, UnitPrice: mustMoney(t, "5")},
		}
		_, err := CalculateTotals(items, nil)
		assert.ErrorIs(t, err, domain.ErrNonPositiveQuantity)
	})

	t.Run("negative tax rate", func(t *testing.T) {
		rate := mustMoney(t, "-0.05")
		_, err := CalculateTotals(valid, &rate)
		assert.ErrorIs(t, err, domain.ErrNegativeTaxRate)
	})
}

func TestCalculateTotalsSumsBeforeRounding(t *testing.T) {
	// Each line total is already rounded; the subtotal is their exact sum
	// rounded once.
	items := []domain.LineItemInput{
		{Description: "A", Quantity: 1, UnitPrice: mustMoney(t, "0.33")},
		{Description: "B", Quantity: 1, UnitPrice: mustMoney(t, "0.33")},
		{Description: "C", Quantity: 1, UnitPrice: mustMoney(t, "0.34")},
	}

	calc, err := CalculateTotals(items, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.00", calc.Subtotal.String())
}
