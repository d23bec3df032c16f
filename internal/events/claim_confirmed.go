package events

import "time"

const ClaimConfirmedTopic = "pay.claim.lifecycle.v1"

type ClaimConfirmedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	EmployeeNumber string    `json:"employee_number"`
	Period         string    `json:"period"`
	OccurredAt     time.Time `json:"occurred_at"`
}
