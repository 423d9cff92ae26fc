package distribution

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
	"github.com/iov-one/rewarder/x"
)

// RegisterRoutes registers all distribution handlers.
func RegisterRoutes(r rewarder.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(CreateMsg{}.Path(), NewCreateHandler(auth, ledger))
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// CreateHandler processes CreateMsg.
type CreateHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ rewarder.Handler = CreateHandler{}

// NewCreateHandler returns a handler creating distributions.
func NewCreateHandler(auth x.Authenticator, ledger *Ledger) CreateHandler {
	return CreateHandler{auth: auth, ledger: ledger}
}

func (h CreateHandler) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &rewarder.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	now, err := rewarder.UnixNow(ctx)
	if err != nil {
		return nil, err
	}
	id, err := h.ledger.Create(db, now, Request{
		Creator:     msg.Creator,
		Pool:        msg.Pool,
		RewardToken: msg.RewardToken,
		Amount:      msg.Amount,
		Start:       msg.Start,
		EpochCount:  msg.EpochCount,
	})
	if err != nil {
		return nil, err
	}
	rewarder.GetLogger(ctx).Info("distribution created",
		"id", rewarder.Address(id),
		"creator", msg.Creator,
		"token", msg.RewardToken,
		"amount", msg.Amount,
		"epochs", msg.EpochCount)
	return &rewarder.DeliverResult{Data: id}, nil
}

func (h CreateHandler) validate(ctx rewarder.Context, tx rewarder.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := rewarder.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Creator) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "creator signature required")
	}
	return &msg, nil
}
