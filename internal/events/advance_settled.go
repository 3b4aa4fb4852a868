package events

import "time"

const (
	AdvanceLifecycleTopic = "fleet.advance.lifecycle.v1"

	AdvanceSettled = "advance.settled"
)

// AdvanceSettledEvent is emitted when a payroll deduction pays an advance off.
type AdvanceSettledEvent struct {
	EventType  string    `json:"event_type"`
	AdvanceID  string    `json:"advance_id"`
	DriverID   string    `json:"driver_id"`
	RunID      string    `json:"run_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
