package governor

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
)

const packageName = "governor"

var cdc = amino.NewCodec()

// Configuration of the governor extension.
type Configuration struct {
	// Owner is the only one allowed to propose roots.
	Owner rewarder.Address `json:"owner"`
	// DisputePeriodSeconds is the delay between proposing and activating
	// a root. Zero means it is not set and no root can be proposed.
	DisputePeriodSeconds int64 `json:"dispute_period_seconds"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.DisputePeriodSeconds < 0 {
		errs = errors.AppendField(errs, "DisputePeriodSeconds", errors.ErrInput)
	}
	return errs
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
