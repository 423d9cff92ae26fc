package whitelist

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
	"github.com/iov-one/rewarder/x"
)

// RegisterRoutes registers all whitelist handlers.
func RegisterRoutes(r rewarder.Registry, auth x.Authenticator) {
	r.Handle(ToggleTokenMsg{}.Path(), NewToggleHandler(auth))
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// ToggleHandler processes ToggleTokenMsg.
type ToggleHandler struct {
	auth x.Authenticator
	list Whitelist
}

var _ rewarder.Handler = ToggleHandler{}

// NewToggleHandler returns a handler for ToggleTokenMsg.
func NewToggleHandler(auth x.Authenticator) ToggleHandler {
	return ToggleHandler{auth: auth, list: NewWhitelist()}
}

func (h ToggleHandler) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &rewarder.CheckResult{}, nil
}

func (h ToggleHandler) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	height, _ := rewarder.GetHeight(ctx)
	on, err := h.list.Toggle(db, msg.Token, height)
	if err != nil {
		return nil, errors.Wrap(err, "toggle")
	}
	rewarder.GetLogger(ctx).Info("token whitelist changed", "token", msg.Token, "whitelisted", on)
	return &rewarder.DeliverResult{Data: []byte{boolByte(on)}}, nil
}

func (h ToggleHandler) validate(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*ToggleTokenMsg, error) {
	var msg ToggleTokenMsg
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

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
