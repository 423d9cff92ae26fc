package distribution

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
)

const packageName = "distribution"

// FeeDenominator is the protocol fee precision. A fee of FeeDenominator
// would take the whole deposit.
const FeeDenominator = 1000000000

var cdc = amino.NewCodec()

// Configuration of the distribution extension.
type Configuration struct {
	Owner rewarder.Address `json:"owner"`
	// SecondsPerEpoch is the width of an epoch. All epoch arithmetic in the
	// application uses this value.
	SecondsPerEpoch int64 `json:"seconds_per_epoch"`
	// MaxDurationSeconds limits how long a single distribution can last.
	MaxDurationSeconds int64 `json:"max_duration_seconds"`
	// ProtocolFee is taken from every deposit, in parts per
	// FeeDenominator.
	ProtocolFee int64 `json:"protocol_fee"`
	// FeeRecipient receives the protocol fee. Required when the fee is
	// not zero.
	FeeRecipient rewarder.Address `json:"fee_recipient"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.SecondsPerEpoch <= 0 {
		errs = errors.AppendField(errs, "SecondsPerEpoch", errors.ErrInput)
	}
	if c.MaxDurationSeconds < c.SecondsPerEpoch {
		errs = errors.AppendField(errs, "MaxDurationSeconds",
			errors.Wrap(errors.ErrInput, "must allow at least one epoch"))
	}
	if c.ProtocolFee < 0 || c.ProtocolFee >= FeeDenominator {
		errs = errors.AppendField(errs, "ProtocolFee",
			errors.Wrapf(errors.ErrInput, "must be in [0, %d)", FeeDenominator))
	}
	if c.ProtocolFee > 0 {
		errs = errors.AppendField(errs, "FeeRecipient", c.FeeRecipient.Validate())
	} else if len(c.FeeRecipient) != 0 {
		errs = errors.AppendField(errs, "FeeRecipient", c.FeeRecipient.Validate())
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

// Clock returns the epoch clock described by this configuration.
func (c *Configuration) Clock() (rewarder.EpochClock, error) {
	return rewarder.NewEpochClock(c.SecondsPerEpoch)
}

// LoadConfiguration returns the configuration stored in the database.
func LoadConfiguration(db rewarder.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// LoadClock returns the application wide epoch clock.
func LoadClock(db rewarder.ReadOnlyKVStore) (rewarder.EpochClock, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return rewarder.EpochClock{}, err
	}
	return conf.Clock()
}
