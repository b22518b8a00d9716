package verify

import (
	"strings"
	"time"

	"github.com/shillmarket/broker/src/utils/model"
	"github.com/shillmarket/broker/src/utils/proofsource"
)

// Failure reasons, stable strings that end up in audits and events
const (
	ReasonPostNotFound      = "post not found"
	ReasonAuthorMismatch    = "author mismatch"
	ReasonMissingLinks      = "missing required links"
	ReasonMissingDisclosure = "missing disclosure text"
)

// Evaluate runs the verification policy. Pure, everything it needs is
// passed in. A nil post means the post was deleted or never existed.
// Checks run in a fixed order and stop at the first failure, flags of
// checks that never ran stay false.
func Evaluate(campaign *model.Campaign, fulfiller *model.Agent, post *proofsource.Post) (out Result) {
	out.Timestamp = time.Now()

	if post == nil {
		out.Reason = ReasonPostNotFound
		return
	}
	out.Checks.PostExists = true

	// An agent without a verified account can't pass authorship
	if fulfiller.VerifiedAuthorId == "" || post.AuthorId != fulfiller.VerifiedAuthorId {
		out.Reason = ReasonAuthorMismatch
		return
	}
	out.Checks.AuthorMatch = true

	for _, link := range campaign.RequiredLinks {
		if !strings.Contains(post.Text, link) {
			out.Reason = ReasonMissingLinks
			return
		}
	}
	out.Checks.LinksPresent = true

	if campaign.DisclosureText != "" && !strings.Contains(post.Text, campaign.DisclosureText) {
		out.Reason = ReasonMissingDisclosure
		return
	}
	out.Checks.DisclosurePresent = true

	out.Passed = true
	return
}
