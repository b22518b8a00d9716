package model

import (
	"database/sql"
	"time"
)

const TableOffer = "offers"

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
)

type Offer struct {
	ID          string `gorm:"primaryKey"`
	CampaignId  string
	FulfillerId string

	// Post text the fulfiller proposes to publish
	DraftText string

	// Proposed price in base units, at most campaign.MaxPrice
	Price int64

	Status OfferStatus

	// Optional requester feedback, set on rejection
	Feedback sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Offer) TableName() string {
	return TableOffer
}
