package model

import (
	"time"

	"github.com/lib/pq"
)

const TableCampaign = "campaigns"

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusPaused    CampaignStatus = "PAUSED"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
)

type Campaign struct {
	ID          string `gorm:"primaryKey"`
	RequesterId string
	Brief       string

	// Links that must appear verbatim in the promotional post
	RequiredLinks pq.StringArray `gorm:"type:text[]"`

	// Substring that must appear in the post (e.g. "#ad")
	DisclosureText string

	// Highest offer price the requester will accept, in base units
	MaxPrice int64

	// How many orders the requester wants filled
	Quantity int

	// How many offers have been accepted so far, never exceeds Quantity
	Filled int

	Status    CampaignStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Campaign) TableName() string {
	return TableCampaign
}
