package dto

import (
	"time"

	"famdo/model"
)

type TodoResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Completed    bool              `json:"completed"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	DayOfWeek    int               `json:"day_of_week,omitempty"`
	IsRecurring  bool              `json:"is_recurring,omitempty"`
	OwnerID      string            `json:"owner_id"`
	SharedWith   []string          `json:"shared_with,omitempty"`
	AllowEdit    bool              `json:"allow_edit"`
	FamilyAccess bool              `json:"family_access"`
	AccessLevel  model.AccessLevel `json:"access_level,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	TimeUntilDue string            `json:"time_until_due,omitempty"`
}

func ToTodoResponse(todo *model.Todo) TodoResponse {
	response := TodoResponse{
		ID:           todo.TodoID,
		Title:        todo.Title,
		Description:  todo.Description,
		Completed:    todo.Completed,
		DayOfWeek:    todo.DayOfWeek,
		IsRecurring:  todo.IsRecurring,
		OwnerID:      todo.OwnerID,
		SharedWith:   todo.SharedWith,
		AllowEdit:    todo.AllowEdit,
		FamilyAccess: todo.FamilyAccess,
		AccessLevel:  todo.AccessLevel,
		CreatedAt:    todo.CreatedAt,
		UpdatedAt:    todo.UpdatedAt,
	}

	if !todo.CompletedAt.IsZero() {
		response.CompletedAt = &todo.CompletedAt
	}
	if !todo.DueDate.IsZero() {
		response.DueDate = &todo.DueDate
		if !todo.Completed {
			if todo.DueDate.Before(time.Now()) {
				response.TimeUntilDue = "Overdue"
			} else {
				response.TimeUntilDue = time.Until(todo.DueDate).Round(time.Hour).String()
			}
		}
	}

	return response
}

func ToTodoResponses(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = ToTodoResponse(todo)
	}
	return responses
}
