package whitelist

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
)

const packageName = "whitelist"

var cdc = amino.NewCodec()

// Configuration of the whitelist extension.
type Configuration struct {
	// Owner is allowed to toggle tokens and to update this configuration.
	Owner rewarder.Address `json:"owner"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	return errors.Field("Owner", c.Owner.Validate(), "owner is required")
}

func (c *Configuration) GetOwner() rewarder.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func loadConf(db rewarder.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
