package approver

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approver roles form a closed set; templates and RBAC policies are both
// expressed against it.
const (
	RoleHR        = "HR"
	RoleIT        = "IT"
	RoleLegal     = "Legal"
	RoleFinance   = "Finance"
	RoleManager   = "Manager"
	RoleExecutive = "Executive"
)

var ValidRoles = []string{RoleHR, RoleIT, RoleLegal, RoleFinance, RoleManager, RoleExecutive}

type Approver struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"type:varchar(120);not null"`
	Email string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_approver_email"`
	Role  string    `gorm:"type:varchar(20);not null;index:idx_approvers_role"`

	// Standing delegation: decisions owed by this approver default to the
	// referenced approver. Per-request delegation lives on the request copy.
	DelegateTo *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_approvers_deleted_at"`
}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
