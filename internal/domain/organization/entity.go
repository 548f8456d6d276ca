package organization

import "time"

type Plan string

const (
	PlanFree     Plan = "free"
	PlanStandard Plan = "standard"
	PlanPro      Plan = "pro"
)

// Limits caps resource usage for a plan.
type Limits struct {
	Employees              int
	ReasonGenerationsMonth int
}

var planLimits = map[Plan]Limits{
	PlanFree:     {Employees: 10, ReasonGenerationsMonth: 30},
	PlanStandard: {Employees: 50, ReasonGenerationsMonth: 500},
	PlanPro:      {Employees: 9999, ReasonGenerationsMonth: 99999},
}

// Limits returns the plan's limits, falling back to the free plan for unknown values.
func (p Plan) Limits() Limits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

type Organization struct {
	ID   string
	Name string
	Plan Plan
	// EmployeeLimit overrides the plan's employee cap when set by an operator.
	EmployeeLimit *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MaxEmployees returns the effective employee cap.
func (o Organization) MaxEmployees() int {
	if o.EmployeeLimit != nil {
		return *o.EmployeeLimit
	}
	return o.Plan.Limits().Employees
}
