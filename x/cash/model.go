package cash

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/orm"
)

var cdc = amino.NewCodec()

// Balance is the amount of a single token held by an owner.
type Balance struct {
	Owner  rewarder.Address `json:"owner"`
	Token  rewarder.Address `json:"token"`
	Amount coin.Amount      `json:"amount"`
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", b.Owner.Validate())
	errs = errors.AppendField(errs, "Token", b.Token.Validate())
	errs = errors.AppendField(errs, "Amount", b.Amount.Validate())
	return errs
}

func (b *Balance) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *Balance) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, b)
}

// balanceKey returns the primary key of a balance. Owner goes first so that
// all balances of an owner are stored next to each other.
func balanceKey(owner, token rewarder.Address) []byte {
	key := make([]byte, 0, len(owner)+len(token))
	key = append(key, owner...)
	return append(key, token...)
}

// NewBalanceBucket returns a bucket for storing balances, indexed by owner.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("balance", &Balance{},
		orm.WithIndex("owner", balanceOwnerIndexer, false),
	)
}

func balanceOwnerIndexer(m orm.Model) ([]byte, error) {
	b, ok := m.(*Balance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return b.Owner, nil
}
