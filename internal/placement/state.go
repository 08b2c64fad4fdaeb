package placement

import "strings"

// Placement is the placement state of one student. Company is set iff Status is Placed.
type Placement struct {
	Status  PlacementStatus
	Company *string
}

// MarkPlaced moves a student to Placed at the given company.
func MarkPlaced(company string) (Placement, error) {
	name := strings.TrimSpace(company)
	if name == "" {
		return Placement{}, fieldError(ErrCompanyRequired, "placed_company", "")
	}
	return Placement{Status: StatusPlaced, Company: &name}, nil
}

// MarkNotPlaced resets a student to NotPlaced. It is permitted from any state.
func MarkNotPlaced() Placement {
	return Placement{Status: StatusNotPlaced}
}

// Transition applies a requested status, as submitted by an administrator.
func Transition(status string, company *string) (Placement, error) {
	target, ok := ParsePlacementStatus(status)
	if !ok {
		return Placement{}, fieldError(ErrInvalidFormat, "placement_status", `invalid placement status, must be "Placed" or "Not Placed"`)
	}

	switch target {
	case StatusPlaced:
		name := ""
		if company != nil {
			name = *company
		}
		return MarkPlaced(name)
	case StatusNotPlaced:
		return MarkNotPlaced(), nil
	default:
		return Placement{}, fieldError(ErrInvalidFormat, "placement_status", "")
	}
}

// Valid reports whether the status and company agree.
func (p Placement) Valid() bool {
	switch p.Status {
	case StatusPlaced:
		return p.Company != nil && strings.TrimSpace(*p.Company) != ""
	case StatusNotPlaced:
		return p.Company == nil
	default:
		return false
	}
}

// CompanyName returns the placed company or an empty string.
func (p Placement) CompanyName() string {
	if p.Company == nil {
		return ""
	}
	return *p.Company
}
