package payroll

import "github.com/shopspring/decimal"

// TaxCalculator derives professional tax and TDS for one payroll line.
// Slab logic lives behind this interface; the default implementation is a
// flat pass-through of the school's configured amounts.
type TaxCalculator interface {
	Compute(gross decimal.Decimal, regime string) (professionalTax, tds decimal.Decimal)
}

// FlatTaxes applies a flat monthly professional tax and no TDS. TDS slabs
// by regime plug in by replacing this implementation.
type FlatTaxes struct {
	ProfessionalTax decimal.Decimal
}

func (f FlatTaxes) Compute(gross decimal.Decimal, regime string) (decimal.Decimal, decimal.Decimal) {
	if gross.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	return f.ProfessionalTax, decimal.Zero
}
