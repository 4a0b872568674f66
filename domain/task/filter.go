package task

import (
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows a task list query. Nil criteria are unconstrained;
// present criteria must all hold (logical AND). There is no OR/NOT
// composition.
type ListFilter struct {
	Completed *bool
	Priority  *Priority
	Category  *string
	DueBefore *time.Time
}

// Apply folds the present criteria into the query. A task with a NULL
// category never matches a category criterion, and a task with a NULL
// due date never matches a due-before criterion.
func (f ListFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.DueBefore != nil {
		q = q.Where("due_date IS NOT NULL AND due_date <= ?", *f.DueBefore)
	}
	return q
}
