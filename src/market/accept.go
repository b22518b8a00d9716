package market

import (
	"context"
	"errors"

	"github.com/shillmarket/broker/src/utils/escrow"
	"github.com/shillmarket/broker/src/utils/model"

	"github.com/jackc/pgtype"
	"github.com/rs/xid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AcceptOffer turns a pending offer into an escrow-backed order.
// One transaction covers the offer flip, the sequence number claim,
// the order insert and the campaign fill counter, so either the whole
// acceptance happens or none of it does.
func (self *Market) AcceptOffer(ctx context.Context, offerId, actorId string, can Capability) (order *model.Order, err error) {
	err = can(model.RoleRequester)
	if err != nil {
		return
	}

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		var offer model.Offer
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, "id = ?", offerId).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return
		}

		if offer.Status != model.OfferStatusPending {
			return NewStateConflictError("offer", "accept", string(offer.Status))
		}

		var campaign model.Campaign
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&campaign, "id = ?", offer.CampaignId).
			Error
		if err != nil {
			return
		}

		// Only the campaign owner accepts its offers
		if campaign.RequesterId != actorId {
			return ErrForbidden
		}

		if campaign.Status != model.CampaignStatusActive {
			return NewStateConflictError("campaign", "accept offers for", string(campaign.Status))
		}

		if campaign.Filled >= campaign.Quantity {
			return ErrCampaignFilled
		}

		// Claim the next sequence number. The conditional increment on
		// the counter row serializes concurrent acceptances.
		var sequenceNo int64
		err = tx.Raw(`UPDATE order_sequence SET last_value = last_value + 1 WHERE id = 1 RETURNING last_value`).
			Scan(&sequenceNo).
			Error
		if err != nil {
			return
		}

		order = &model.Order{
			ID:              xid.New().String(),
			CampaignId:      campaign.ID,
			OfferId:         offer.ID,
			RequesterId:     campaign.RequesterId,
			FulfillerId:     offer.FulfillerId,
			SequenceNo:      sequenceNo,
			Amount:          offer.Price,
			FeeBps:          self.config.Market.FeeBps,
			EscrowHandle:    escrow.DeriveHandle(sequenceNo),
			EscrowPhase:     model.EscrowPhaseNone,
			Status:          model.OrderStatusAccepted,
			RetentionWindow: int64(self.config.Market.RetentionWindow.Seconds()),
			VerifyResult:    pgtype.JSONB{Status: pgtype.Null},
		}
		err = tx.Create(order).Error
		if err != nil {
			return
		}

		err = tx.Model(&offer).Update("status", model.OfferStatusAccepted).Error
		if err != nil {
			return
		}

		updates := map[string]interface{}{"filled": gorm.Expr("filled + 1")}
		if campaign.Filled+1 >= campaign.Quantity {
			updates["status"] = model.CampaignStatusCompleted
		}
		return tx.Model(&campaign).Updates(updates).Error
	})
	if err != nil {
		order = nil
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) &&
			!errors.Is(err, ErrCampaignFilled) && !IsStateConflict(err) {
			self.monitor.GetReport().Market.Errors.DbError.Inc()
		}
		return
	}

	self.monitor.GetReport().Market.State.OffersAccepted.Inc()
	self.log.WithField("order_id", order.ID).
		WithField("sequence_no", order.SequenceNo).
		WithField("amount", order.Amount).
		Info("Offer accepted, order created")
	return
}

// RejectOffer flips a pending offer to REJECTED with optional feedback
func (self *Market) RejectOffer(ctx context.Context, offerId, actorId, feedback string, can Capability) (err error) {
	err = can(model.RoleRequester)
	if err != nil {
		return
	}

	return self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		var offer model.Offer
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, "id = ?", offerId).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return
		}

		var campaign model.Campaign
		err = tx.First(&campaign, "id = ?", offer.CampaignId).Error
		if err != nil {
			return
		}
		if campaign.RequesterId != actorId {
			return ErrForbidden
		}

		if offer.Status != model.OfferStatusPending {
			return NewStateConflictError("offer", "reject", string(offer.Status))
		}

		updates := map[string]interface{}{"status": model.OfferStatusRejected}
		if feedback != "" {
			updates["feedback"] = feedback
		}
		return tx.Model(&offer).Updates(updates).Error
	})
}
