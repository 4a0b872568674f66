package task

import (
	"time"

	"github.com/example/taskboard/pkg/optional"
)

// UpdateFields carries a partial update. An unset field leaves the stored
// value unchanged; a field set to null clears a nullable column; a field set
// to a value overwrites it.
type UpdateFields struct {
	Title       optional.Field[string]
	Description optional.Field[string]
	Completed   optional.Field[bool]
	Priority    optional.Field[Priority]
	Category    optional.Field[string]
	DueDate     optional.Field[time.Time]
}

// Changes translates the set fields into a column/value map. updated_at is
// always included so an update with zero changed fields still advances it.
func (u UpdateFields) Changes(now time.Time) map[string]any {
	changes := map[string]any{"updated_at": now}
	if v, ok := u.Title.Value(); ok {
		changes["title"] = v
	}
	if u.Description.IsSet() {
		if v, ok := u.Description.Value(); ok {
			changes["description"] = v
		} else {
			changes["description"] = nil
		}
	}
	if v, ok := u.Completed.Value(); ok {
		changes["completed"] = v
	}
	if v, ok := u.Priority.Value(); ok {
		changes["priority"] = v
	}
	if u.Category.IsSet() {
		if v, ok := u.Category.Value(); ok {
			changes["category"] = v
		} else {
			changes["category"] = nil
		}
	}
	if u.DueDate.IsSet() {
		if v, ok := u.DueDate.Value(); ok {
			changes["due_date"] = v
		} else {
			changes["due_date"] = nil
		}
	}
	return changes
}
