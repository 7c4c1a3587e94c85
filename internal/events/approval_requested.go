package events

import "time"

const ApprovalRequestedTopic = "offboard.approval.requested.v1"

type ApprovalRequestedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id"`
	ApprovalRequestID string    `json:"approval_request_id"`
	SessionID         string    `json:"session_id"`
	TaskID            string    `json:"task_id"`
	TaskName          string    `json:"task_name"`
	RequestedBy       string    `json:"requested_by"`
	Level             int       `json:"level"`
	ApproverIDs       []string  `json:"approver_ids"`
	OccurredAt        time.Time `json:"occurred_at"`
}
