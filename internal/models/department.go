package models

type Department struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ManagerID   *string `json:"managerId,omitempty"` // weak reference to an employee
}

type CreateDepartmentDTO struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	ManagerID   *string `json:"managerId"`
}

type UpdateDepartmentDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ManagerID   *string `json:"managerId"`
}

func (u UpdateDepartmentDTO) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.ManagerID == nil
}
