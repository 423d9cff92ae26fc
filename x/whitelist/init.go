package whitelist

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
)

// Initializer loads the whitelist configuration and the initial token set
// from the genesis.
//
//	"conf": {"whitelist": {"owner": "..."}},
//	"whitelist": ["<token address>", ...]
type Initializer struct{}

var _ rewarder.Initializer = Initializer{}

func (Initializer) FromGenesis(opts rewarder.Options, db rewarder.KVStore) error {
	if err := gconf.InitConfig(db, opts, packageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	var tokens []rewarder.Address
	if err := opts.ReadOptions(packageName, &tokens); err != nil {
		return err
	}
	list := NewWhitelist()
	for i, t := range tokens {
		ok, err := list.IsWhitelisted(db, t)
		if err != nil {
			return err
		}
		if ok {
			return errors.Wrapf(errors.ErrDuplicate, "token %d: %s", i, t)
		}
		if _, err := list.Toggle(db, t, 0); err != nil {
			return errors.Wrapf(err, "token %d", i)
		}
	}
	return nil
}
