package models

import "time"

type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	IsCompleted bool      `json:"isCompleted"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	DueDate     *string   `json:"dueDate,omitempty"`
}

type CreateTaskDTO struct {
	Text       string  `json:"text" validate:"required"`
	AssignedTo *string `json:"assignedTo"`
	DueDate    *string `json:"dueDate"`
}

type UpdateTaskDTO struct {
	Text        *string `json:"text"`
	IsCompleted *bool   `json:"isCompleted"`
	AssignedTo  *string `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
}

func (u UpdateTaskDTO) IsEmpty() bool {
	return u.Text == nil && u.IsCompleted == nil && u.AssignedTo == nil && u.DueDate == nil
}
