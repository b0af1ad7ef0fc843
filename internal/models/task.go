package models

import "time"

type TaskStatus string

const (
	TaskStatusToStart    TaskStatus = "TO_START"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus returns the status named by s, or false if s is not a
// board column.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusToStart, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

const (
	MinTaskPriority = 1
	MaxTaskPriority = 3
)

// Task rows are retained on soft deletion; IsSoftDeleted renders the task
// inert rather than removing it. Hard deletion erases the row outright, so
// there is no gorm.DeletedAt here.
type Task struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'TO_START'" json:"status"`
	Priority      int        `gorm:"not null;default:1" json:"priority"`
	DueDate       *time.Time `json:"due_date"`
	CompletedAt   *time.Time `json:"completed_at"`
	IsSoftDeleted bool       `gorm:"not null;default:false" json:"is_soft_deleted"`
	ProjectID     uint64     `gorm:"not null;index" json:"project_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
