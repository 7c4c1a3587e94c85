package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Task lifecycle. Tasks that require approval pass through awaiting_approval
// and only become completable once the linked approval request is approved.
const (
	TaskStatusPending          = "pending"
	TaskStatusAwaitingApproval = "awaiting_approval"
	TaskStatusInProgress       = "in_progress"
	TaskStatusCompleted        = "completed"
	TaskStatusRejected         = "rejected"
)

// OffboardingSession groups the tasks for one departing employee. One active
// session per employee at a time.
type OffboardingSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_sessions_employee_active,where:status = 'active'"`
	EmployeeName string    `gorm:"type:varchar(120);not null"`
	Department   string    `gorm:"type:varchar(60)"`
	Status       string    `gorm:"type:varchar(20);not null;index:idx_sessions_status"`
	StartedBy    string    `gorm:"type:varchar(64);not null"`

	Tasks []OffboardingTask `gorm:"foreignKey:SessionID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_sessions_deleted_at"`
}

type OffboardingTask struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_session"`
	Name       string    `gorm:"type:varchar(160);not null"`
	TaskType   string    `gorm:"type:varchar(60);not null"`
	Department string    `gorm:"type:varchar(60)"`
	Status     string    `gorm:"type:varchar(30);not null"`

	RequiresApproval bool `gorm:"not null;default:false"`

	// Set once the task enters approval; links to the engine's request.
	ApprovalRequestID *string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *OffboardingSession) IsActive() bool {
	return s.Status == StatusActive
}
