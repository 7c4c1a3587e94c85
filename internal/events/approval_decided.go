package events

import "time"

const ApprovalDecidedTopic = "offboard.approval.decided.v1"

type ApprovalDecidedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id"`
	ApprovalRequestID string    `json:"approval_request_id"`
	SessionID         string    `json:"session_id"`
	TaskID            string    `json:"task_id"`
	TaskName          string    `json:"task_name"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason,omitempty"`
	DecidedBy         string    `json:"decided_by"`
	RequestedBy       string    `json:"requested_by"`
	OccurredAt        time.Time `json:"occurred_at"`
}
