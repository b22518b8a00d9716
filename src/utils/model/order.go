package model

import (
	"database/sql"
	"time"

	"github.com/jackc/pgtype"
)

const TableOrder = "orders"

type OrderStatus string

const (
	OrderStatusAccepted     OrderStatus = "ACCEPTED"
	OrderStatusEscrowFunded OrderStatus = "ESCROW_FUNDED"
	OrderStatusPosted       OrderStatus = "POSTED"

	// Claimed by the verifier, transient
	OrderStatusProcessing OrderStatus = "PROCESSING"

	// Terminal
	OrderStatusPaid   OrderStatus = "PAID"
	OrderStatusFailed OrderStatus = "FAILED"
)

type EscrowPhase string

const (
	EscrowPhaseNone     EscrowPhase = ""
	EscrowPhaseLocked   EscrowPhase = "LOCKED"
	EscrowPhaseReleased EscrowPhase = "RELEASED"
	EscrowPhaseRefunded EscrowPhase = "REFUNDED"
)

type Order struct {
	ID          string `gorm:"primaryKey"`
	CampaignId  string
	OfferId     string `gorm:"uniqueIndex"`
	RequesterId string
	FulfillerId string

	// Strictly increasing nonce shared with the escrow ledger.
	// The escrow handle is derived from it, duplicates would corrupt
	// the derivation.
	SequenceNo int64 `gorm:"uniqueIndex"`

	// Settlement amount in base units, copied from the accepted offer
	// price and never mutated afterwards
	Amount int64

	// Platform fee in basis points
	FeeBps int64

	// Opaque reference to the on-ledger locked-funds record
	EscrowHandle string
	EscrowPhase  EscrowPhase

	Status OrderStatus

	// Proof fields, set on proof submission
	PostId   string
	PostUrl  string
	PostedAt sql.NullTime

	// Minimum delay between proof submission and verification, seconds
	RetentionWindow int64

	// PostedAt + RetentionWindow, set exactly once at POSTED entry
	VerifyAt sql.NullTime

	VerifiedAt   sql.NullTime
	VerifyResult pgtype.JSONB `gorm:"type:jsonb"`

	// Ledger confirmation signatures, may stay empty since the escrow
	// calls are synchronous
	ReleaseTx sql.NullString
	RefundTx  sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Order) TableName() string {
	return TableOrder
}

// IsTerminal tells whether the order reached a final state.
// No operation may transition out of PAID or FAILED.
func (self *Order) IsTerminal() bool {
	return self.Status == OrderStatusPaid || self.Status == OrderStatusFailed
}
