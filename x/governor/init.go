package governor

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/gconf"
)

// Initializer loads the governor configuration from the genesis.
type Initializer struct{}

var _ rewarder.Initializer = Initializer{}

func (Initializer) FromGenesis(opts rewarder.Options, db rewarder.KVStore) error {
	return gconf.InitConfig(db, opts, packageName, &Configuration{})
}
