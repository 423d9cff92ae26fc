package claim

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// RegisterRoutes registers the claim handler.
func RegisterRoutes(r rewarder.Registry, p Processor) {
	r.Handle(ClaimMsg{}.Path(), NewHandler(p))
}

// Handler processes ClaimMsg.
type Handler struct {
	p Processor
}

var _ rewarder.Handler = Handler{}

// NewHandler returns a claim handler.
func NewHandler(p Processor) Handler {
	return Handler{p: p}
}

func (h Handler) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.CheckResult, error) {
	var msg ClaimMsg
	if err := rewarder.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &rewarder.CheckResult{}, nil
}

func (h Handler) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.DeliverResult, error) {
	var msg ClaimMsg
	if err := rewarder.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	now, err := rewarder.UnixNow(ctx)
	if err != nil {
		return nil, err
	}
	payout, err := h.p.Claim(ctx, db, now, Request{
		Recipient:  msg.Recipient,
		Token:      msg.Token,
		Cumulative: msg.Amount,
		Proof:      msg.Proof,
	})
	if err != nil {
		return nil, err
	}
	rewarder.GetLogger(ctx).Info("claim settled",
		"recipient", msg.Recipient,
		"token", msg.Token,
		"payout", payout)
	return &rewarder.DeliverResult{Data: []byte(payout.String())}, nil
}
