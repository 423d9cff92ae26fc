package claim

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/orm"
)

var cdc = amino.NewCodec()

// Record is the amount of a token already paid to a recipient.
type Record struct {
	Recipient rewarder.Address `json:"recipient"`
	Token     rewarder.Address `json:"token"`
	Paid      coin.Amount      `json:"paid"`
}

var _ orm.Model = (*Record)(nil)

func (r *Record) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Recipient", r.Recipient.Validate())
	errs = errors.AppendField(errs, "Token", r.Token.Validate())
	errs = errors.AppendField(errs, "Paid", r.Paid.Validate())
	return errs
}

func (r *Record) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

func (r *Record) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, r)
}

func recordKey(recipient, token rewarder.Address) []byte {
	key := make([]byte, 0, len(recipient)+len(token))
	key = append(key, recipient...)
	return append(key, token...)
}

// NewRecordBucket returns a bucket of claim records indexed by recipient.
func NewRecordBucket() orm.ModelBucket {
	return orm.NewModelBucket("claim", &Record{},
		orm.WithIndex("recipient", recipientIndexer, false),
	)
}

func recipientIndexer(m orm.Model) ([]byte, error) {
	r, ok := m.(*Record)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return r.Recipient, nil
}
