package model

import (
	"time"

	"github.com/jackc/pgtype"
)

const TableVerificationAudit = "verification_audits"

// Append-only record of every verification outcome, written in batches
// by the audit sink. The order row keeps only the latest result, this
// table keeps all of them.
type VerificationAudit struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	OrderId   string
	Passed    bool
	Reason    string
	Checks    pgtype.JSONB `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (VerificationAudit) TableName() string {
	return TableVerificationAudit
}
