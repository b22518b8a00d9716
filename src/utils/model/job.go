package model

import (
	"database/sql"
	"time"

	"github.com/jackc/pgtype"
)

const TableScheduledJob = "scheduled_jobs"

type JobState string

const (
	JobStatePending    JobState = "PENDING"
	JobStateProcessing JobState = "PROCESSING"
	JobStateDone       JobState = "DONE"
	JobStateFailed     JobState = "FAILED"
)

const (
	JobKindVerifyOrder = "verify-order"
)

// Payload of a verify-order job
type VerifyOrderPayload struct {
	OrderId string `json:"order_id"`
}

// A delayed job. Delivered to its processor no earlier than ProcessAfter,
// at least once. Duplicate delivery is possible after a crash, processors
// must be idempotent.
type ScheduledJob struct {
	ID      string `gorm:"primaryKey"`
	Kind    string
	Payload pgtype.JSONB `gorm:"type:jsonb"`

	// Earliest delivery time
	ProcessAfter time.Time

	State     JobState
	Attempts  int
	LastError sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ScheduledJob) TableName() string {
	return TableScheduledJob
}
