package domain

import "strings"

// TargetKind tags the variant of a notice Target.
type TargetKind string

const (
	TargetKindIndividual TargetKind = "individual"
	TargetKindDepartment TargetKind = "department"
	TargetKindAll        TargetKind = "all"
)

// ParseTargetKind accepts any casing of a known kind.
func ParseTargetKind(s string) (TargetKind, bool) {
	switch TargetKind(strings.ToLower(strings.TrimSpace(s))) {
	case TargetKindIndividual:
		return TargetKindIndividual, true
	case TargetKindDepartment:
		return TargetKindDepartment, true
	case TargetKindAll:
		return TargetKindAll, true
	}
	return "", false
}

// Department is one entry of the fixed department enumeration.
type Department string

var Departments = []Department{
	"HR",
	"Finance",
	"Engineering",
	"Sales Team",
	"Web Team",
}

// ParseDepartment matches case-insensitively and returns the canonical
// spelling.
func ParseDepartment(s string) (Department, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Departments {
		if strings.EqualFold(string(d), s) {
			return d, true
		}
	}
	return "", false
}

// Target is the audience of a notice: TargetAll, TargetDepartment or
// TargetIndividual.
type Target interface {
	Kind() TargetKind
	// Label is the human-readable audience shown in the notice table.
	Label() string
	validate(verr *ValidationError)
}

type TargetAll struct{}

func (TargetAll) Kind() TargetKind            { return TargetKindAll }
func (TargetAll) Label() string               { return "All Department" }
func (TargetAll) validate(_ *ValidationError) {}

type TargetDepartment struct {
	Departments []Department
}

func (TargetDepartment) Kind() TargetKind { return TargetKindDepartment }

func (t TargetDepartment) Label() string {
	names := make([]string, len(t.Departments))
	for i, d := range t.Departments {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func (t TargetDepartment) validate(verr *ValidationError) {
	if len(t.Departments) == 0 {
		verr.Add("departments", "Select at least one department")
		return
	}
	for _, d := range t.Departments {
		if _, ok := ParseDepartment(string(d)); !ok {
			verr.Add("departments", "Unknown department: "+string(d))
		}
	}
}

type TargetIndividual struct {
	EmployeeID   string
	EmployeeName string
	Position     string
}

func (TargetIndividual) Kind() TargetKind { return TargetKindIndividual }
func (TargetIndividual) Label() string    { return "Individual" }

func (t TargetIndividual) validate(verr *ValidationError) {
	if strings.TrimSpace(t.EmployeeID) == "" {
		verr.Add("employeeId", "Select an employee")
	}
}
