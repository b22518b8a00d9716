package model

import "time"

const TableAgent = "agents"

type Role string

const (
	RoleRequester Role = "REQUESTER"
	RoleFulfiller Role = "FULFILLER"
)

// A participant of the marketplace. Identity issuance is external,
// this is only the projection the broker needs.
type Agent struct {
	ID     string `gorm:"primaryKey"`
	Role   Role
	Handle string

	// Account id on the proof platform, set once the agent's account
	// is verified. Authorship checks compare against this.
	VerifiedAuthorId string

	CreatedAt time.Time
}

func (Agent) TableName() string {
	return TableAgent
}
