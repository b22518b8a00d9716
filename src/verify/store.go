package verify

import (
	"context"

	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/logger"
	"github.com/shillmarket/broker/src/utils/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store covers the verifier's database reads and the batched audit
// writes
type Store struct {
	config *config.Config
	log    *logrus.Entry

	db *gorm.DB
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)
	self.config = config
	self.log = logger.NewSublogger("verify-store")
	return
}

func (self *Store) WithDB(db *gorm.DB) *Store {
	self.db = db
	return self
}

func (self *Store) GetCampaign(ctx context.Context, id string) (out *model.Campaign, err error) {
	var campaign model.Campaign
	err = self.db.WithContext(ctx).First(&campaign, "id = ?", id).Error
	if err != nil {
		return
	}
	return &campaign, nil
}

func (self *Store) GetAgent(ctx context.Context, id string) (out *model.Agent, err error) {
	var agent model.Agent
	err = self.db.WithContext(ctx).First(&agent, "id = ?", id).Error
	if err != nil {
		return
	}
	return &agent, nil
}

// SaveAudits writes one batch of audit rows. Called by the audit sink's
// flush, retried there on failure.
func (self *Store) SaveAudits(audits []*model.VerificationAudit) (err error) {
	if len(audits) == 0 {
		return nil
	}
	return self.db.Create(audits).Error
}

// GetDivergent returns orders whose escrow phase doesn't line up with
// their status. PAID must have a released escrow, FAILED a refunded
// one, and a non-terminal order whose funds already moved points at a
// crash between the ledger call and the final status write.
func (self *Store) GetDivergent(ctx context.Context, limit int) (out []model.Order, err error) {
	err = self.db.WithContext(ctx).
		Where("(status = ? AND escrow_phase <> ?) OR (status = ? AND escrow_phase <> ?) OR (status IN ? AND escrow_phase IN ?)",
			model.OrderStatusPaid, model.EscrowPhaseReleased,
			model.OrderStatusFailed, model.EscrowPhaseRefunded,
			[]model.OrderStatus{model.OrderStatusPosted, model.OrderStatusProcessing},
			[]model.EscrowPhase{model.EscrowPhaseReleased, model.EscrowPhaseRefunded}).
		Limit(limit).
		Find(&out).
		Error
	return
}
