package store

import "staff-tracker/internal/models"

// Assignment is one column=value pair of a partial update.
type Assignment struct {
	Column string
	Value  any
}

func EmployeeAssignments(u models.UpdateEmployeeDTO) []Assignment {
	var sets []Assignment
	add := func(col string, v any) { sets = append(sets, Assignment{Column: col, Value: v}) }

	if u.FirstName != nil {
		add("first_name", *u.FirstName)
	}
	if u.LastName != nil {
		add("last_name", *u.LastName)
	}
	if u.Email != nil {
		add("email", *u.Email)
	}
	if u.Department != nil {
		add("department", *u.Department)
	}
	if u.Position != nil {
		add("position", *u.Position)
	}
	if u.Salary != nil {
		add("salary", *u.Salary)
	}
	if u.HireDate != nil {
		add("hire_date", *u.HireDate)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Phone != nil {
		add("phone", *u.Phone)
	}
	if u.Address != nil {
		add("address", *u.Address)
	}
	return sets
}

func TaskAssignments(u models.UpdateTaskDTO) []Assignment {
	var sets []Assignment
	if u.Text != nil {
		sets = append(sets, Assignment{"text", *u.Text})
	}
	if u.IsCompleted != nil {
		sets = append(sets, Assignment{"is_completed", *u.IsCompleted})
	}
	if u.AssignedTo != nil {
		sets = append(sets, Assignment{"assigned_to", *u.AssignedTo})
	}
	if u.DueDate != nil {
		sets = append(sets, Assignment{"due_date", *u.DueDate})
	}
	return sets
}

func DepartmentAssignments(u models.UpdateDepartmentDTO) []Assignment {
	var sets []Assignment
	if u.Name != nil {
		sets = append(sets, Assignment{"name", *u.Name})
	}
	if u.Description != nil {
		sets = append(sets, Assignment{"description", *u.Description})
	}
	if u.ManagerID != nil {
		sets = append(sets, Assignment{"manager_id", *u.ManagerID})
	}
	return sets
}
