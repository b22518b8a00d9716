package verify

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgtype"
)

// Outcome flags of the individual policy checks. Evaluation stops at
// the first failure, so a false flag after the failing one only means
// the check never ran.
type Checks struct {
	PostExists        bool `json:"post_exists"`
	AuthorMatch       bool `json:"author_match"`
	LinksPresent      bool `json:"links_present"`
	DisclosurePresent bool `json:"disclosure_present"`
}

// Result of evaluating the verification policy against a post
type Result struct {
	Passed    bool      `json:"passed"`
	Reason    string    `json:"reason,omitempty"`
	Checks    Checks    `json:"checks"`
	Timestamp time.Time `json:"timestamp"`
}

func (self *Result) JSONB() (out pgtype.JSONB, err error) {
	raw, err := json.Marshal(self)
	if err != nil {
		return
	}
	err = out.Set(raw)
	return
}

func (self *Result) ChecksJSONB() (out pgtype.JSONB, err error) {
	raw, err := json.Marshal(self.Checks)
	if err != nil {
		return
	}
	err = out.Set(raw)
	return
}
