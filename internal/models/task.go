// Package models defines the household entities exchanged between the
// store, the HTTP API and the terminal client.
package models

import "time"

// TaskCategory groups tasks on the dashboard.
type TaskCategory string

const (
	CategoryWork     TaskCategory = "Work"
	CategoryHome     TaskCategory = "Home"
	CategoryBusiness TaskCategory = "Business"
	CategoryBills    TaskCategory = "Bills"
	CategoryCar      TaskCategory = "Car"
	CategoryPersonal TaskCategory = "Personal"
)

// TaskCategories lists the accepted categories in display order.
var TaskCategories = []string{"Work", "Home", "Business", "Bills", "Car", "Personal"}

// TaskPriority ranks tasks.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// TaskPriorities lists the accepted priorities.
var TaskPriorities = []string{"Low", "Medium", "High"}

// Task is a to-do item with a due date.
type Task struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Category  TaskCategory `json:"category"`
	DueDate   Date         `json:"dueDate"`
	Completed bool         `json:"completed"`
	Priority  TaskPriority `json:"priority"`
	CreatedAt time.Time    `json:"createdAt"`
}

// TaskInput is the body of POST /api/tasks.
type TaskInput struct {
	Title     string       `json:"title"`
	Category  TaskCategory `json:"category"`
	DueDate   Date         `json:"dueDate"`
	Completed bool         `json:"completed"`
	Priority  TaskPriority `json:"priority"`
}

// Validate checks required fields and enums.
func (in TaskInput) Validate() error {
	var v validator
	v.required("title", in.Title)
	v.oneOf("category", string(in.Category), TaskCategories)
	v.date("dueDate", in.DueDate)
	v.oneOf("priority", string(in.Priority), TaskPriorities)
	return v.err()
}

// WithDefaults returns the input unchanged; completed already defaults to false.
func (in TaskInput) WithDefaults() TaskInput {
	return in
}

// TaskPatch is the body of PATCH /api/tasks/{id}. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string       `json:"title,omitempty"`
	Category  *TaskCategory `json:"category,omitempty"`
	DueDate   *Date         `json:"dueDate,omitempty"`
	Completed *bool         `json:"completed,omitempty"`
	Priority  *TaskPriority `json:"priority,omitempty"`
}

// Validate checks the supplied fields only.
func (p TaskPatch) Validate() error {
	var v validator
	if p.Title != nil {
		v.required("title", *p.Title)
	}
	if p.Category != nil {
		v.oneOf("category", string(*p.Category), TaskCategories)
	}
	v.optionalDate("dueDate", p.DueDate)
	if p.Priority != nil {
		v.oneOf("priority", string(*p.Priority), TaskPriorities)
	}
	return v.err()
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}
