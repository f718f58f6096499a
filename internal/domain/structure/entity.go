package structure

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructure defines the monthly earning components assigned to an
// employee. It is a read-only input to payroll computation.
type SalaryStructure struct {
	ID        string
	SchoolID  string
	Name      string
	Basic     decimal.Decimal
	HRA       decimal.Decimal
	DA        decimal.Decimal
	TA        decimal.Decimal
	Medical   decimal.Decimal
	Special   decimal.Decimal
	Gross     decimal.Decimal
	CTC       decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComponentSum adds the six earning components. Stored Gross is expected to
// equal this; computation always derives from the components.
func (s SalaryStructure) ComponentSum() decimal.Decimal {
	return s.Basic.Add(s.HRA).Add(s.DA).Add(s.TA).Add(s.Medical).Add(s.Special)
}
