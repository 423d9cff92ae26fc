package governor

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
	"github.com/iov-one/rewarder/x"
)

// RegisterRoutes registers all governor handlers.
func RegisterRoutes(r rewarder.Registry, auth x.Authenticator, gov Governor) {
	r.Handle(ProposeRootMsg{}.Path(), NewProposeHandler(auth, gov))
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// ProposeHandler processes ProposeRootMsg.
type ProposeHandler struct {
	auth x.Authenticator
	gov  Governor
}

var _ rewarder.Handler = ProposeHandler{}

// NewProposeHandler returns a handler for root proposals.
func NewProposeHandler(auth x.Authenticator, gov Governor) ProposeHandler {
	return ProposeHandler{auth: auth, gov: gov}
}

func (h ProposeHandler) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rewarder.CheckResult{}, nil
}

func (h ProposeHandler) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := rewarder.UnixNow(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.gov.Propose(db, msg.Root, now); err != nil {
		return nil, err
	}
	s, err := h.gov.State(db)
	if err != nil {
		return nil, err
	}
	rewarder.GetLogger(ctx).Info("root proposed",
		"root", rewarder.Address(msg.Root),
		"activates_at", s.ActivatesAt())
	return &rewarder.DeliverResult{}, nil
}

func (h ProposeHandler) validate(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*ProposeRootMsg, error) {
	var msg ProposeRootMsg
	if err := rewarder.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return &msg, nil
}

// Ticker promotes the pending root at the beginning of every block.
type Ticker struct {
	gov Governor
}

var _ rewarder.Ticker = Ticker{}

// NewTicker returns a ticker driving given governor.
func NewTicker(gov Governor) Ticker {
	return Ticker{gov: gov}
}

func (t Ticker) Tick(ctx rewarder.Context, db rewarder.KVStore) error {
	now, err := rewarder.UnixNow(ctx)
	if err != nil {
		return err
	}
	return Advance(ctx, db, t.gov, now)
}

// Advance ticks the governor and logs a promotion.
func Advance(ctx rewarder.Context, db rewarder.KVStore, gov Governor, now rewarder.UnixTime) error {
	promoted, err := gov.Tick(db, now)
	if err != nil {
		return errors.Wrap(err, "governor tick")
	}
	if promoted {
		root, err := gov.GoverningRoot(db)
		if err != nil {
			return err
		}
		rewarder.GetLogger(ctx).Info("root activated", "root", rewarder.Address(root))
	}
	return nil
}
