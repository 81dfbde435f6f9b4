package models

// Employee statuses
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

// IsValidStatus checks if the status is one of the known employee statuses
func IsValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	default:
		return false
	}
}

type Employee struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
	HireDate   string  `json:"hireDate"` // YYYY-MM-DD
	Status     string  `json:"status"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
}

type CreateEmployeeDTO struct {
	FirstName  string  `json:"firstName" validate:"required"`
	LastName   string  `json:"lastName" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Department string  `json:"department" validate:"required"`
	Position   string  `json:"position" validate:"required"`
	Salary     float64 `json:"salary" validate:"gt=0"`
	HireDate   string  `json:"hireDate" validate:"required,datetime=2006-01-02"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
}

// UpdateEmployeeDTO is a partial update. A nil field is left unchanged; there is
// no way to clear an optional field through it.
type UpdateEmployeeDTO struct {
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Department *string  `json:"department"`
	Position   *string  `json:"position"`
	Salary     *float64 `json:"salary" validate:"omitempty,gt=0"`
	HireDate   *string  `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
	Status     *string  `json:"status" validate:"omitempty,employee_status"`
	Phone      *string  `json:"phone"`
	Address    *string  `json:"address"`
}

// IsEmpty reports whether the update carries no fields.
func (u UpdateEmployeeDTO) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.Department == nil && u.Position == nil && u.Salary == nil &&
		u.HireDate == nil && u.Status == nil && u.Phone == nil && u.Address == nil
}
