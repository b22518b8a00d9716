package report

import (
	"go.uber.org/atomic"
)

type MarketErrors struct {
	DbError atomic.Uint64 `json:"db_error"`
}

type MarketState struct {
	OffersAccepted  atomic.Uint64 `json:"offers_accepted"`
	ProofsSubmitted atomic.Uint64 `json:"proofs_submitted"`
}

type MarketReport struct {
	State  MarketState  `json:"state"`
	Errors MarketErrors `json:"errors"`
}
