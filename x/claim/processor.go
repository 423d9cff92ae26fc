package claim

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/orm"
	"github.com/iov-one/rewarder/x/governor"
)

// Payer releases escrowed funds.
type Payer interface {
	TransferOut(db rewarder.KVStore, token, to rewarder.Address, amount coin.Amount) error
}

// Processor verifies claims against the governing root and pays them out.
type Processor struct {
	bucket orm.ModelBucket
	gov    governor.Governor
	payer  Payer
}

// NewProcessor returns a claim processor.
func NewProcessor(gov governor.Governor, payer Payer) Processor {
	return Processor{
		bucket: NewRecordBucket(),
		gov:    gov,
		payer:  payer,
	}
}

// Request is a single claim.
type Request struct {
	Recipient rewarder.Address
	Token     rewarder.Address
	// Cumulative is the total amount owed, as committed in the leaf.
	Cumulative coin.Amount
	Proof      merkle.Proof
}

// Claim verifies the request and pays the difference between the proven
// cumulative amount and what was already paid. The governor is advanced
// to now before the governing root is read.
func (p Processor) Claim(ctx rewarder.Context, db rewarder.KVStore, now rewarder.UnixTime, req Request) (coin.Amount, error) {
	if err := governor.Advance(ctx, db, p.gov, now); err != nil {
		return coin.Amount{}, err
	}
	root, err := p.gov.GoverningRoot(db)
	if err != nil {
		return coin.Amount{}, err
	}

	leaf, err := merkle.LeafHash(req.Recipient, req.Token, req.Cumulative)
	if err != nil {
		return coin.Amount{}, errors.Wrap(errors.ErrInvalidProof, err.Error())
	}
	if !merkle.Verify(root, leaf, req.Proof) {
		return coin.Amount{}, errors.Wrap(errors.ErrInvalidProof, "proof does not match the governing root")
	}

	paid, err := p.Paid(db, req.Recipient, req.Token)
	if err != nil {
		return coin.Amount{}, err
	}
	if req.Cumulative.Cmp(paid) <= 0 {
		return coin.Amount{}, errors.Wrapf(errors.ErrNothingToClaim, "%s already paid", paid)
	}
	payout, err := req.Cumulative.Subtract(paid)
	if err != nil {
		return coin.Amount{}, err
	}

	if err := p.payer.TransferOut(db, req.Token, req.Recipient, payout); err != nil {
		return coin.Amount{}, err
	}
	rec := Record{Recipient: req.Recipient, Token: req.Token, Paid: req.Cumulative}
	if _, err := p.bucket.Put(db, recordKey(req.Recipient, req.Token), &rec); err != nil {
		return coin.Amount{}, errors.Wrap(err, "cannot store claim record")
	}
	return payout, nil
}

// Paid returns the amount of a token already paid to a recipient.
func (p Processor) Paid(db rewarder.ReadOnlyKVStore, recipient, token rewarder.Address) (coin.Amount, error) {
	var rec Record
	switch err := p.bucket.One(db, recordKey(recipient, token), &rec); {
	case err == nil:
		return rec.Paid, nil
	case errors.ErrNotFound.Is(err):
		return coin.Amount{}, nil
	default:
		return coin.Amount{}, err
	}
}

// Records returns all claim records of a recipient.
func (p Processor) Records(db rewarder.ReadOnlyKVStore, recipient rewarder.Address) ([]Record, error) {
	var recs []Record
	if _, err := p.bucket.ByIndex(db, "recipient", recipient, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
