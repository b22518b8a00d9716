package report

import (
	"go.uber.org/atomic"
)

type DispatcherErrors struct {
	ClaimError    atomic.Uint64 `json:"claim_error"`
	DbUpdateError atomic.Uint64 `json:"db_update_error"`
}

type DispatcherState struct {
	JobsScheduled  atomic.Uint64 `json:"jobs_scheduled"`
	JobsClaimed    atomic.Uint64 `json:"jobs_claimed"`
	JobsReclaimed  atomic.Uint64 `json:"jobs_reclaimed"`
	JobsDone       atomic.Uint64 `json:"jobs_done"`
	JobsRetried    atomic.Uint64 `json:"jobs_retried"`
	JobsAbandoned  atomic.Uint64 `json:"jobs_abandoned"`
}

type DispatcherReport struct {
	State  DispatcherState  `json:"state"`
	Errors DispatcherErrors `json:"errors"`
}
