package cash

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/x"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r rewarder.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// SendHandler will handle sending coins.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ rewarder.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg.
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and authorized.
func (h SendHandler) Check(ctx rewarder.Context, store rewarder.KVStore, tx rewarder.Tx) (*rewarder.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &rewarder.CheckResult{}, nil
}

// Deliver moves the tokens from source to destination.
func (h SendHandler) Deliver(ctx rewarder.Context, store rewarder.KVStore, tx rewarder.Tx) (*rewarder.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	rewarder.GetLogger(ctx).Info("coins sent",
		"source", msg.Source, "destination", msg.Destination, "amount", msg.Amount)
	return &rewarder.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx rewarder.Context, tx rewarder.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := rewarder.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
