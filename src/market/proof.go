package market

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shillmarket/broker/src/utils/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitProof records the published post on the order and moves it to
// POSTED. The verification job is written in the same transaction, it
// becomes visible to the poller exactly when the status flip commits.
func (self *Market) SubmitProof(ctx context.Context, orderId, actorId, postId, postUrl string, can Capability) (order *model.Order, err error) {
	err = can(model.RoleFulfiller)
	if err != nil {
		return
	}

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		var found model.Order
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&found, "id = ?", orderId).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return
		}

		if found.FulfillerId != actorId {
			return ErrForbidden
		}

		// Proof lands on a fresh order only. A POSTED order already has
		// a verification scheduled, terminal orders are immutable.
		if found.Status != model.OrderStatusAccepted && found.Status != model.OrderStatusEscrowFunded {
			return NewStateConflictError("order", "submit proof for", string(found.Status))
		}

		now := time.Now()
		verifyAt := now.Add(time.Duration(found.RetentionWindow) * time.Second)

		err = tx.Model(&found).Updates(map[string]interface{}{
			"status":    model.OrderStatusPosted,
			"post_id":   postId,
			"post_url":  postUrl,
			"posted_at": now,
			"verify_at": verifyAt,
		}).Error
		if err != nil {
			return
		}

		err = self.scheduler.Schedule(tx,
			model.JobKindVerifyOrder,
			model.VerifyOrderPayload{OrderId: found.ID},
			time.Duration(found.RetentionWindow)*time.Second)
		if err != nil {
			return
		}

		found.Status = model.OrderStatusPosted
		found.PostId = postId
		found.PostUrl = postUrl
		found.PostedAt = sql.NullTime{Time: now, Valid: true}
		found.VerifyAt = sql.NullTime{Time: verifyAt, Valid: true}
		order = &found
		return
	})
	if err != nil {
		order = nil
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) && !IsStateConflict(err) {
			self.monitor.GetReport().Market.Errors.DbError.Inc()
		}
		return
	}

	self.monitor.GetReport().Market.State.ProofsSubmitted.Inc()
	self.log.WithField("order_id", order.ID).
		WithField("post_id", postId).
		WithField("verify_at", order.VerifyAt.Time).
		Info("Proof submitted, verification scheduled")
	return
}

// MarkEscrowFunded acknowledges that the ledger locked the funds.
// ACCEPTED is the only status this applies to, repeated calls are
// state conflicts.
func (self *Market) MarkEscrowFunded(ctx context.Context, orderId, actorId string, can Capability) (err error) {
	err = can(model.RoleRequester)
	if err != nil {
		return
	}

	res := self.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND requester_id = ? AND status = ?", orderId, actorId, model.OrderStatusAccepted).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusEscrowFunded,
			"escrow_phase": model.EscrowPhaseLocked,
		})
	if res.Error != nil {
		self.monitor.GetReport().Market.Errors.DbError.Inc()
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Guarded write missed, find out why
	var found model.Order
	err = self.db.WithContext(ctx).First(&found, "id = ?", orderId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		self.monitor.GetReport().Market.Errors.DbError.Inc()
		return
	}
	if found.RequesterId != actorId {
		return ErrForbidden
	}
	return NewStateConflictError("order", "mark escrow funded for", string(found.Status))
}
