package session

import "time"

type CreateTaskRequest struct {
	Name             string `json:"name" binding:"required"`
	TaskType         string `json:"task_type" binding:"required"`
	Department       string `json:"department"`
	RequiresApproval bool   `json:"requires_approval"`
}

type CreateSessionRequest struct {
	EmployeeID   string              `json:"employee_id" binding:"required"`
	EmployeeName string              `json:"employee_name" binding:"required"`
	Department   string              `json:"department"`
	StartedBy    string              `json:"started_by" binding:"required"`
	Tasks        []CreateTaskRequest `json:"tasks" binding:"required,min=1,dive"`
}

type TaskResponse struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	Name              string    `json:"name"`
	TaskType          string    `json:"task_type"`
	Department        string    `json:"department,omitempty"`
	Status            string    `json:"status"`
	RequiresApproval  bool      `json:"requires_approval"`
	ApprovalRequestID string    `json:"approval_request_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type SessionResponse struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employee_id"`
	EmployeeName string         `json:"employee_name"`
	Department   string         `json:"department,omitempty"`
	Status       string         `json:"status"`
	StartedBy    string         `json:"started_by"`
	Tasks        []TaskResponse `json:"tasks"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
