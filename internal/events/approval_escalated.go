package events

import "time"

const ApprovalEscalatedTopic = "offboard.approval.escalated.v1"

type ApprovalEscalatedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id"`
	ApprovalRequestID string    `json:"approval_request_id"`
	SessionID         string    `json:"session_id"`
	TaskID            string    `json:"task_id"`
	TaskName          string    `json:"task_name"`
	Level             int       `json:"level"`
	EscalatedTo       string    `json:"escalated_to"`
	HoursElapsed      float64   `json:"hours_elapsed"`
	OccurredAt        time.Time `json:"occurred_at"`
}
