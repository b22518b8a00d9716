package escrow

import (
	"context"
	"fmt"

	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Confirmation of a settled escrow, returned by the ledger
type Confirmation struct {
	Handle    string `json:"handle"`
	Signature string `json:"signature"`
}

// Ledger is the narrow escrow interface the settlement pipeline needs.
// Both calls move funds on the custodial ledger and are idempotent from
// the ledger's perspective.
type Ledger interface {
	// Release pays the fulfiller minus fee, remainder goes to the fee pool
	Release(ctx context.Context, sequenceNo int64) (*Confirmation, error)

	// Refund returns the full amount to the requester
	Refund(ctx context.Context, sequenceNo int64) (*Confirmation, error)
}

// Client talks to the custodial escrow ledger API
type Client struct {
	client *resty.Client
	log    *logrus.Entry
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.log = logger.NewSublogger("escrow-client")

	self.client = resty.New().
		SetBaseURL(config.Escrow.Url).
		SetTimeout(config.Escrow.RequestTimeout).
		SetHeader("Accept", "application/json")

	return
}

func (self *Client) Release(ctx context.Context, sequenceNo int64) (out *Confirmation, err error) {
	return self.settle(ctx, "release", sequenceNo)
}

func (self *Client) Refund(ctx context.Context, sequenceNo int64) (out *Confirmation, err error) {
	return self.settle(ctx, "refund", sequenceNo)
}

func (self *Client) settle(ctx context.Context, op string, sequenceNo int64) (out *Confirmation, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetResult(Confirmation{}).
		ForceContentType("application/json").
		SetBody(map[string]interface{}{
			"sequence_no": sequenceNo,
		}).
		Post("/v1/escrow/" + op)
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		self.log.WithField("status", resp.StatusCode()).
			WithField("op", op).
			WithField("sequence_no", sequenceNo).
			Warn("Escrow request has not been successful")
		err = fmt.Errorf("escrow %s failed: unexpected status %s", op, resp.Status())
		return
	}

	out, ok := resp.Result().(*Confirmation)
	if !ok {
		err = fmt.Errorf("escrow %s failed: malformed response", op)
		return
	}
	return
}
