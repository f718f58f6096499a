package report

import "github.com/shopspring/decimal"

// PFRow is one UAN-keyed line of the monthly provident fund return.
type PFRow struct {
	UAN          string          `json:"uan"`
	EmployeeName string          `json:"employee_name"`
	PFWages      decimal.Decimal `json:"pf_wages"`
	EPS          decimal.Decimal `json:"eps"`
	EPF          decimal.Decimal `json:"epf"`
	PFEmployee   decimal.Decimal `json:"pf_employee"`
	PFEmployer   decimal.Decimal `json:"pf_employer"`
	TotalPF      decimal.Decimal `json:"total_pf"`
}

type PFTotals struct {
	PFWages    decimal.Decimal `json:"pf_wages"`
	EPS        decimal.Decimal `json:"eps"`
	EPF        decimal.Decimal `json:"epf"`
	PFEmployee decimal.Decimal `json:"pf_employee"`
	PFEmployer decimal.Decimal `json:"pf_employer"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type PFReport struct {
	Month  int      `json:"month"`
	Year   int      `json:"year"`
	Rows   []PFRow  `json:"rows"`
	Totals PFTotals `json:"totals"`
}

// ESIRow is one line of the monthly ESI contribution statement.
type ESIRow struct {
	ESINumber     string          `json:"esi_number"`
	EmployeeName  string          `json:"employee_name"`
	GrossEarnings decimal.Decimal `json:"gross_earnings"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	EmployerShare decimal.Decimal `json:"employer_share"`
}

// NonEligible lists employees above the wage threshold, with the
// human-readable reason surfaced to the admin.
type NonEligible struct {
	EmployeeName  string          `json:"employee_name"`
	GrossEarnings decimal.Decimal `json:"gross_earnings"`
	Reason        string          `json:"reason"`
}

type ESITotals struct {
	GrossEarnings decimal.Decimal `json:"gross_earnings"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	EmployerShare decimal.Decimal `json:"employer_share"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

type ESIReport struct {
	Month       int           `json:"month"`
	Year        int           `json:"year"`
	Rows        []ESIRow      `json:"rows"`
	NonEligible []NonEligible `json:"non_eligible"`
	Totals      ESITotals     `json:"totals"`
}

// PayslipData is everything the PDF renderer needs for one payslip.
type PayslipData struct {
	SchoolName   string
	EmployeeName string
	EmployeeCode string
	Month        int
	Year         int
	DaysWorked   decimal.Decimal
	DaysAbsent   decimal.Decimal
	Earnings     []LabelledAmount
	Deductions   []LabelledAmount
	Gross        decimal.Decimal
	TotalDeduced decimal.Decimal
	Net          decimal.Decimal
}

type LabelledAmount struct {
	Label  string
	Amount decimal.Decimal
}
