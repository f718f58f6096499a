package readiness

import (
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
)

// Rule is one hold condition. Rules are evaluated in slice order; the first
// rule that applies decides the classification.
type Rule struct {
	Name    string
	Applies func(p profile.EmployeeProfile) bool
	Result  payroll.Readiness
}

// DefaultRules is the priority-ordered rule list. The structure check comes
// first: an employee without a salary structure is skipped outright, even if
// their bank details are also missing.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "no_salary_structure",
			Applies: func(p profile.EmployeeProfile) bool {
				return p.SalaryStructureID == nil || *p.SalaryStructureID == ""
			},
			Result: payroll.SkippedNoStructure,
		},
		{
			Name: "pending_profile_approval",
			Applies: func(p profile.EmployeeProfile) bool {
				return p.ChangeState.Kind == profile.ChangePending
			},
			Result: payroll.OnHoldApproval,
		},
		{
			Name: "incomplete_bank_details",
			Applies: func(p profile.EmployeeProfile) bool {
				return !p.Bank.Complete()
			},
			Result: payroll.OnHoldBank,
		},
	}
}

// Classifier decides whether an employee's payroll can be computed.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(p profile.EmployeeProfile) payroll.Readiness {
	for _, rule := range c.rules {
		if rule.Applies(p) {
			return rule.Result
		}
	}
	return payroll.Ready
}
