package events

import "time"

const (
	PayrollRunLifecycleTopic = "fleet.payroll.run.lifecycle.v1"

	PayrollRunCreated             = "payroll_run.created"
	PayrollRunApproved            = "payroll_run.approved"
	PayrollRunDeductionsProcessed = "payroll_run.deductions_processed"
	PayrollRunClosed              = "payroll_run.closed"
)

type PayrollRunLifecycleEvent struct {
	EventType     string    `json:"event_type"`
	RunID         string    `json:"run_id"`
	RunNumber     string    `json:"run_number"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actor_id"`
	TotalDeducted string    `json:"total_deducted,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
