package task

import "time"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a tracked unit of work.
// Description, Category, and DueDate are nullable; a nil pointer maps to
// NULL in the store, which is distinct from an empty string.
type Task struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"size:500;not null" json:"title"`
	Description *string    `gorm:"size:2000" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Priority    Priority   `gorm:"size:10;not null;default:medium;check:priority IN ('low','medium','high')" json:"priority"`
	Category    *string    `gorm:"size:100;index" json:"category"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `gorm:"index;not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
