package approval

import "time"

type CreateApprovalRequest struct {
	SessionID   string            `json:"session_id" binding:"required"`
	TaskID      string            `json:"task_id" binding:"required"`
	TaskName    string            `json:"task_name" binding:"required"`
	RequestedBy string            `json:"requested_by" binding:"required"`
	TemplateID  string            `json:"template_id" binding:"required"`
	Metadata    map[string]string `json:"metadata"`
}

type ApproveRequest struct {
	ApproverID   string `json:"approver_id" binding:"required"`
	ApproverName string `json:"approver_name" binding:"required"`
	Comments     string `json:"comments"`
}

type RejectRequest struct {
	ApproverID   string `json:"approver_id" binding:"required"`
	ApproverName string `json:"approver_name" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

type DelegateRequest struct {
	FromApproverID string `json:"from_approver_id" binding:"required"`
	ToApproverID   string `json:"to_approver_id" binding:"required"`
	ToApproverName string `json:"to_approver_name" binding:"required"`
	Reason         string `json:"reason"`
}

type ApproverResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	DelegateTo string `json:"delegate_to,omitempty"`
}

type LevelResponse struct {
	Level               int                `json:"level"`
	Approvers           []ApproverResponse `json:"approvers"`
	RequiredApprovals   int                `json:"required_approvals"`
	Type                string             `json:"type"`
	EscalationTimeHours float64            `json:"escalation_time_hours,omitempty"`
	EscalateTo          string             `json:"escalate_to,omitempty"`
}

type ActionResponse struct {
	ID           string    `json:"id"`
	ApproverID   string    `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	Action       string    `json:"action"`
	Timestamp    time.Time `json:"timestamp"`
	Level        int       `json:"level"`
	Comments     string    `json:"comments,omitempty"`
}

type ApprovalRequestResponse struct {
	ID           string            `json:"id"`
	SessionID    string            `json:"session_id"`
	TaskID       string            `json:"task_id"`
	TaskName     string            `json:"task_name"`
	RequestedBy  string            `json:"requested_by"`
	RequestedAt  time.Time         `json:"requested_at"`
	CurrentLevel int               `json:"current_level"`
	TotalLevels  int               `json:"total_levels"`
	Status       string            `json:"status"`
	Reason       string            `json:"reason,omitempty"`
	Levels       []LevelResponse   `json:"levels"`
	History      []ActionResponse  `json:"history"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type TemplateResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Department  string          `json:"department,omitempty"`
	TaskType    string          `json:"task_type,omitempty"`
	Levels      []LevelResponse `json:"levels"`
}
