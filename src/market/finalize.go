package market

import (
	"context"
	"errors"
	"time"

	"github.com/shillmarket/broker/src/utils/model"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"
)

// ClaimForVerification moves an order from POSTED to PROCESSING.
// The guarded update is the claim, a concurrent duplicate delivery
// loses the race and gets claimed=false.
func (self *Market) ClaimForVerification(ctx context.Context, orderId string) (order *model.Order, claimed bool, err error) {
	res := self.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderId, model.OrderStatusPosted).
		Update("status", model.OrderStatusProcessing)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	var found model.Order
	err = self.db.WithContext(ctx).First(&found, "id = ?", orderId).Error
	if err != nil {
		return nil, false, err
	}
	return &found, true, nil
}

// ReleaseClaim puts a claimed order back to POSTED after a transient
// verification failure so a later retry can claim it again
func (self *Market) ReleaseClaim(ctx context.Context, orderId string) (err error) {
	return self.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderId, model.OrderStatusProcessing).
		Update("status", model.OrderStatusPosted).
		Error
}

// RecordEscrowRelease persists the ledger confirmation before the
// final status flip. A crash in between leaves the phase ahead of the
// status, which is exactly what reconciliation looks for.
func (self *Market) RecordEscrowRelease(ctx context.Context, orderId, signature string) (err error) {
	return self.recordEscrowPhase(ctx, orderId, model.EscrowPhaseReleased, "release_tx", signature)
}

func (self *Market) RecordEscrowRefund(ctx context.Context, orderId, signature string) (err error) {
	return self.recordEscrowPhase(ctx, orderId, model.EscrowPhaseRefunded, "refund_tx", signature)
}

func (self *Market) recordEscrowPhase(ctx context.Context, orderId string, phase model.EscrowPhase, txColumn, signature string) (err error) {
	updates := map[string]interface{}{"escrow_phase": phase}
	if signature != "" {
		updates[txColumn] = signature
	}

	res := self.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderId, model.OrderStatusProcessing).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return self.conflict(ctx, orderId, "record escrow phase for")
	}
	return nil
}

// FinalizeSuccess flips a claimed order to PAID. Must only be called
// after the escrow release confirmed.
func (self *Market) FinalizeSuccess(ctx context.Context, orderId string, result pgtype.JSONB) (err error) {
	return self.finalize(ctx, orderId, model.OrderStatusPaid, result)
}

// FinalizeFailure flips a claimed order to FAILED. Must only be called
// after the escrow refund confirmed.
func (self *Market) FinalizeFailure(ctx context.Context, orderId string, result pgtype.JSONB) (err error) {
	return self.finalize(ctx, orderId, model.OrderStatusFailed, result)
}

func (self *Market) finalize(ctx context.Context, orderId string, status model.OrderStatus, result pgtype.JSONB) (err error) {
	res := self.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderId, model.OrderStatusProcessing).
		Updates(map[string]interface{}{
			"status":        status,
			"verified_at":   time.Now(),
			"verify_result": result,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return self.conflict(ctx, orderId, "finalize")
	}
	return nil
}

func (self *Market) conflict(ctx context.Context, orderId, operation string) (err error) {
	var found model.Order
	err = self.db.WithContext(ctx).First(&found, "id = ?", orderId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return
	}
	return NewStateConflictError("order", operation, string(found.Status))
}
