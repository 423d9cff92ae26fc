package distribution

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/orm"
)

// Escrow moves funds on the ledger the distributions are paid from.
type Escrow interface {
	TransferIn(db rewarder.KVStore, token, from rewarder.Address, amount coin.Amount) error
	TransferOut(db rewarder.KVStore, token, to rewarder.Address, amount coin.Amount) error
}

// TokenFilter decides which tokens can fund a distribution.
type TokenFilter interface {
	IsWhitelisted(db rewarder.ReadOnlyKVStore, token rewarder.Address) (bool, error)
}

// Request describes a distribution to be created.
type Request struct {
	Creator     rewarder.Address
	Pool        rewarder.Address
	RewardToken rewarder.Address
	// Amount is the full deposit, including the protocol fee.
	Amount     coin.Amount
	Start      rewarder.UnixTime
	EpochCount int64
}

// Ledger records distributions and computes how much of them was released.
type Ledger struct {
	bucket orm.ModelBucket
	escrow Escrow
	tokens TokenFilter
}

// NewLedger returns a ledger that escrows deposits using given escrow and
// accepts only tokens allowed by the filter.
func NewLedger(escrow Escrow, tokens TokenFilter) *Ledger {
	return &Ledger{
		bucket: NewDistributionBucket(),
		escrow: escrow,
		tokens: tokens,
	}
}

// Create validates the request, escrows the deposit and stores a new
// distribution. Returned is the distribution ID.
func (l *Ledger) Create(db rewarder.KVStore, now rewarder.UnixTime, req Request) ([]byte, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	clock, err := conf.Clock()
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	if !clock.IsBoundary(req.Start) {
		return nil, errors.Wrapf(errors.ErrInvalidDuration, "start %d is not an epoch boundary", req.Start)
	}
	if req.EpochCount <= 0 {
		return nil, errors.Wrap(errors.ErrInvalidDuration, "at least one epoch required")
	}
	if req.EpochCount > conf.MaxDurationSeconds/clock.SecondsPerEpoch() {
		return nil, errors.Wrapf(errors.ErrInvalidDuration, "%d epochs exceed maximum duration of %d seconds", req.EpochCount, conf.MaxDurationSeconds)
	}
	switch ok, err := l.tokens.IsWhitelisted(db, req.RewardToken); {
	case err != nil:
		return nil, errors.Wrap(err, "whitelist")
	case !ok:
		return nil, errors.Wrapf(errors.ErrNotWhitelisted, "token %s", req.RewardToken)
	}
	startEpoch := clock.Index(req.Start)
	if startEpoch < clock.Index(now) {
		return nil, errors.Wrapf(errors.ErrStaleStart, "start epoch %d, current epoch %d", startEpoch, clock.Index(now))
	}

	fee, err := req.Amount.MulDiv(coin.NewAmount(conf.ProtocolFee), coin.NewAmount(FeeDenominator))
	if err != nil {
		return nil, err
	}
	net, err := req.Amount.Subtract(fee)
	if err != nil {
		return nil, err
	}
	if !net.IsPositive() {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "nothing left after the protocol fee")
	}

	// Funds are moved before any record is written. A failed transfer
	// leaves the store unchanged.
	if err := l.escrow.TransferIn(db, req.RewardToken, req.Creator, req.Amount); err != nil {
		return nil, err
	}
	if fee.IsPositive() {
		if err := l.escrow.TransferOut(db, req.RewardToken, conf.FeeRecipient, fee); err != nil {
			return nil, errors.Wrap(err, "protocol fee")
		}
	}

	nonce, err := l.nextNonce(db, req.Creator)
	if err != nil {
		return nil, err
	}
	d := Distribution{
		ID:          DistributionID(req.Creator, nonce),
		Creator:     req.Creator,
		Pool:        req.Pool,
		RewardToken: req.RewardToken,
		TotalAmount: net,
		StartEpoch:  startEpoch,
		EpochCount:  req.EpochCount,
		CreatedAt:   now,
	}
	if _, err := l.bucket.Put(db, nil, &d); err != nil {
		return nil, errors.Wrap(err, "cannot store distribution")
	}
	return d.ID, nil
}

// nextNonce returns the per creator counter, starting from zero.
func (l *Ledger) nextNonce(db rewarder.KVStore, creator rewarder.Address) (int64, error) {
	seq := nonceSequence(creator)
	n, err := seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "nonce")
	}
	return n - 1, nil
}

// Nonce returns the nonce the next distribution of given creator will use.
func (l *Ledger) Nonce(db rewarder.ReadOnlyKVStore, creator rewarder.Address) (int64, error) {
	seq := nonceSequence(creator)
	return seq.Curr(db)
}

func nonceSequence(creator rewarder.Address) orm.Sequence {
	return orm.NewSequence("dist_nonce", creator.String())
}

// Get returns the distribution with given ID.
func (l *Ledger) Get(db rewarder.ReadOnlyKVStore, id []byte) (*Distribution, error) {
	var found []*Distribution
	if _, err := l.bucket.ByIndex(db, "dist_id", id, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "distribution %X", id)
	}
	return found[0], nil
}

// DisbursementForWindow returns the amount the distribution released
// between two points in time. Only whole epochs within the distribution
// range are counted.
func (l *Ledger) DisbursementForWindow(db rewarder.ReadOnlyKVStore, id []byte, from, to rewarder.UnixTime) (coin.Amount, error) {
	d, err := l.Get(db, id)
	if err != nil {
		return coin.Amount{}, err
	}
	clock, err := LoadClock(db)
	if err != nil {
		return coin.Amount{}, err
	}
	return d.Disbursement(clock.Index(from), clock.Index(to)), nil
}

// Count returns the number of distributions ever created.
func (l *Ledger) Count(db rewarder.ReadOnlyKVStore) (int64, error) {
	seq := orm.NewSequence("dist", "id")
	return seq.Curr(db)
}

// ByIndex returns the n-th created distribution, counting from zero.
func (l *Ledger) ByIndex(db rewarder.ReadOnlyKVStore, n int64) (*Distribution, error) {
	if n < 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "distribution %d", n)
	}
	var d Distribution
	if err := l.bucket.One(db, orm.EncodeSequence(n+1), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ByCreator returns all distributions created by given address, oldest
// first.
func (l *Ledger) ByCreator(db rewarder.ReadOnlyKVStore, creator rewarder.Address) ([]*Distribution, error) {
	var found []*Distribution
	if _, err := l.bucket.ByIndex(db, "creator", creator, &found); err != nil {
		return nil, err
	}
	return found, nil
}

// All returns an iterator over every distribution, oldest first.
func (l *Ledger) All(db rewarder.ReadOnlyKVStore) Sequence {
	return &bucketSequence{db: db, bucket: l.bucket, match: func(*Distribution) bool { return true }}
}

// ActiveDistributions returns the distributions releasing rewards during
// given epoch.
func (l *Ledger) ActiveDistributions(db rewarder.ReadOnlyKVStore, epoch int64) Sequence {
	return &bucketSequence{
		db:     db,
		bucket: l.bucket,
		match:  func(d *Distribution) bool { return d.IsActive(epoch) },
	}
}

// ActiveDistributionsForPool is ActiveDistributions limited to a single
// pool.
func (l *Ledger) ActiveDistributionsForPool(db rewarder.ReadOnlyKVStore, pool rewarder.Address, epoch int64) Sequence {
	return &poolSequence{db: db, bucket: l.bucket, pool: pool, epoch: epoch}
}
