package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/config"
)

var hundred = decimal.NewFromInt(100)

// StatutoryRates are the statutory constants used by the calculator, with
// percentage rates already converted to fractions.
type StatutoryRates struct {
	PFRate            decimal.Decimal
	PFWageCeiling     decimal.Decimal
	EPSRate           decimal.Decimal
	EPSCap            decimal.Decimal
	ESIGrossThreshold decimal.Decimal
	ESIEmployeeRate   decimal.Decimal
	ESIEmployerRate   decimal.Decimal
}

// RatesFromConfig converts the configured percentages into fractions.
func RatesFromConfig(c config.StatutoryConfig) StatutoryRates {
	return StatutoryRates{
		PFRate:            c.PFRate.Div(hundred),
		PFWageCeiling:     c.PFWageCeiling,
		EPSRate:           c.EPSRate.Div(hundred),
		EPSCap:            c.EPSCap,
		ESIGrossThreshold: c.ESIGrossThreshold,
		ESIEmployeeRate:   c.ESIEmployeeRate.Div(hundred),
		ESIEmployerRate:   c.ESIEmployerRate.Div(hundred),
	}
}

// WithPFRate returns a copy with the PF rate replaced by a per-school
// override, given as a percentage.
func (r StatutoryRates) WithPFRate(percent decimal.Decimal) StatutoryRates {
	r.PFRate = percent.Div(hundred)
	return r
}

// ESIIneligibleReason is the reason string reported for employees whose
// earned gross exceeds the ESI wage threshold.
func (r StatutoryRates) ESIIneligibleReason(gross decimal.Decimal) string {
	return fmt.Sprintf("Gross salary ₹%s exceeds ESI threshold of ₹%s",
		gross.StringFixed(2), groupINR(r.ESIGrossThreshold.Truncate(0).String()))
}

// groupINR inserts Indian-style digit grouping: the last three digits form
// one group, the rest group in pairs (21000 -> 21,000; 150000 -> 1,50,000).
func groupINR(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
