package verify

import (
	"encoding/json"
	"time"
)

// SettlementEvent is published to Redis after an order settles.
// Amounts are in base units, fee and payout are zero on refunds.
type SettlementEvent struct {
	OrderId      string    `json:"order_id"`
	SequenceNo   int64     `json:"sequence_no"`
	EscrowHandle string    `json:"escrow_handle"`
	Status       string    `json:"status"`
	Amount       int64     `json:"amount"`
	Fee          int64     `json:"fee"`
	Payout       int64     `json:"payout"`
	Reason       string    `json:"reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (self SettlementEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}
