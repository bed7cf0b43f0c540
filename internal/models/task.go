package models

import "time"

// Task statuses (kanban columns). Transitions are unconstrained: the board
// allows dragging a card to any column, so only enum validity is checked.
const (
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a work item on a project board. AssigneeID is optional and, when
// set, must reference a current member of the task's project.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;default:todo" json:"status"`     // todo, inprogress, done
	Priority    string    `gorm:"size:20;default:medium" json:"priority"` // low, medium, high
	ProjectID   uint      `gorm:"index;not null" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	AssigneeID  *uint     `gorm:"index" json:"assignee_id"`
	Assignee    *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// IsValidStatus reports whether status is one of the known task statuses.
func IsValidStatus(status string) bool {
	return status == StatusTodo || status == StatusInProgress || status == StatusDone
}

// IsValidPriority reports whether priority is one of the known priorities.
func IsValidPriority(priority string) bool {
	return priority == PriorityLow || priority == PriorityMedium || priority == PriorityHigh
}
