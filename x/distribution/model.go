package distribution

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/orm"
)

// Distribution is a reward stream of a single token over a range of
// epochs.
type Distribution struct {
	// ID is keccak256(creator ‖ uint256(nonce)).
	ID      []byte           `json:"id"`
	Creator rewarder.Address `json:"creator"`
	// Pool the incentive is attached to. Optional.
	Pool        rewarder.Address `json:"pool,omitempty"`
	RewardToken rewarder.Address `json:"reward_token"`
	// TotalAmount is the escrowed amount, after the protocol fee.
	TotalAmount coin.Amount       `json:"total_amount"`
	StartEpoch  int64             `json:"start_epoch"`
	EpochCount  int64             `json:"epoch_count"`
	CreatedAt   rewarder.UnixTime `json:"created_at"`
}

var _ orm.Model = (*Distribution)(nil)

func (d *Distribution) Validate() error {
	var errs error
	if len(d.ID) != merkle.HashSize {
		errs = errors.AppendField(errs, "ID", errors.Wrapf(errors.ErrInput, "must be %d bytes", merkle.HashSize))
	}
	errs = errors.AppendField(errs, "Creator", d.Creator.Validate())
	if len(d.Pool) != 0 {
		errs = errors.AppendField(errs, "Pool", d.Pool.Validate())
	}
	errs = errors.AppendField(errs, "RewardToken", d.RewardToken.Validate())
	if !d.TotalAmount.IsPositive() {
		errs = errors.AppendField(errs, "TotalAmount", errors.ErrInvalidAmount)
	} else {
		errs = errors.AppendField(errs, "TotalAmount", d.TotalAmount.Validate())
	}
	if d.StartEpoch < 0 {
		errs = errors.AppendField(errs, "StartEpoch", errors.ErrInvalidDuration)
	}
	if d.EpochCount <= 0 {
		errs = errors.AppendField(errs, "EpochCount", errors.ErrInvalidDuration)
	}
	errs = errors.AppendField(errs, "CreatedAt", d.CreatedAt.Validate())
	return errs
}

func (d *Distribution) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *Distribution) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, d)
}

// EndEpoch returns the first epoch after the distribution.
func (d *Distribution) EndEpoch() int64 {
	return d.StartEpoch + d.EpochCount
}

// IsActive returns true if rewards are released during given epoch.
func (d *Distribution) IsActive(epoch int64) bool {
	return epoch >= d.StartEpoch && epoch < d.EndEpoch()
}

// PerEpoch returns the amount released in a single epoch, rounded down.
func (d *Distribution) PerEpoch() coin.Amount {
	per, err := d.TotalAmount.Divide(d.EpochCount)
	if err != nil {
		// EpochCount is validated before the distribution is stored.
		panic(err)
	}
	return per
}

// ElapsedEpochs returns the number of active epochs within [from, to).
func (d *Distribution) ElapsedEpochs(from, to int64) int64 {
	if from < d.StartEpoch {
		from = d.StartEpoch
	}
	if to > d.EndEpoch() {
		to = d.EndEpoch()
	}
	if to <= from {
		return 0
	}
	return to - from
}

// Disbursement returns the amount released during epochs [from, to).
func (d *Distribution) Disbursement(from, to int64) coin.Amount {
	return d.PerEpoch().Multiply(d.ElapsedEpochs(from, to))
}

// DistributionID returns keccak256(creator ‖ uint256(nonce)), the same value
// as Solidity keccak256(abi.encodePacked(address, uint256)).
func DistributionID(creator rewarder.Address, nonce int64) []byte {
	n := common.BigToHash(big.NewInt(nonce))
	return merkle.Keccak256(creator, n.Bytes())
}

// NewDistributionBucket returns a bucket that keeps distributions in
// insertion order. Distributions are indexed by ID, creator and pool.
func NewDistributionBucket() orm.ModelBucket {
	return orm.NewModelBucket("dist", &Distribution{},
		orm.WithIDSequence(orm.NewSequence("dist", "id")),
		orm.WithIndex("dist_id", idIndexer, true),
		orm.WithIndex("creator", creatorIndexer, false),
		orm.WithIndex("pool", poolIndexer, false),
	)
}

func asDistribution(m orm.Model) (*Distribution, error) {
	d, ok := m.(*Distribution)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return d, nil
}

func idIndexer(m orm.Model) ([]byte, error) {
	d, err := asDistribution(m)
	if err != nil {
		return nil, err
	}
	return d.ID, nil
}

func creatorIndexer(m orm.Model) ([]byte, error) {
	d, err := asDistribution(m)
	if err != nil {
		return nil, err
	}
	return d.Creator, nil
}

func poolIndexer(m orm.Model) ([]byte, error) {
	d, err := asDistribution(m)
	if err != nil {
		return nil, err
	}
	if len(d.Pool) == 0 {
		return nil, nil
	}
	return d.Pool, nil
}
