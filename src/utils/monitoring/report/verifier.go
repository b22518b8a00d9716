package report

import (
	"go.uber.org/atomic"
)

type VerifierErrors struct {
	ProofSourceError    atomic.Uint64 `json:"proof_source_error"`
	EscrowReleaseError  atomic.Uint64 `json:"escrow_release_error"`
	EscrowRefundError   atomic.Uint64 `json:"escrow_refund_error"`
	FinalizeError       atomic.Uint64 `json:"finalize_error"`
	AuditSaveError      atomic.Uint64 `json:"audit_save_error"`
	ReconcileDivergence atomic.Uint64 `json:"reconcile_divergence"`
}

type VerifierState struct {
	OrdersClaimed atomic.Uint64 `json:"orders_claimed"`
	OrdersPassed  atomic.Uint64 `json:"orders_passed"`
	OrdersFailed  atomic.Uint64 `json:"orders_failed"`
	OrdersSkipped atomic.Uint64 `json:"orders_skipped"`
	AuditsSaved   atomic.Uint64 `json:"audits_saved"`
}

type VerifierReport struct {
	State  VerifierState  `json:"state"`
	Errors VerifierErrors `json:"errors"`
}
