package distribution

import (
	"testing"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
	"github.com/iov-one/rewarder/store"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
	"github.com/iov-one/rewarder/x/cash"
	"github.com/iov-one/rewarder/x/whitelist"
)

const hour = 3600

type fixture struct {
	db      rewarder.KVStore
	ledger  *Ledger
	cash    cash.Controller
	creator rewarder.Address
	token   rewarder.Address
}

func newFixture(t testing.TB, fee int64) *fixture {
	t.Helper()
	f := &fixture{
		db:      store.MemStore(),
		cash:    cash.NewController(),
		creator: weavetest.NewCondition().Address(),
		token:   weavetest.NewToken(),
	}
	list := whitelist.NewWhitelist()
	f.ledger = NewLedger(f.cash, list)

	conf := Configuration{
		Owner:              weavetest.NewCondition().Address(),
		SecondsPerEpoch:    hour,
		MaxDurationSeconds: 30 * 24 * hour,
		ProtocolFee:        fee,
	}
	if fee > 0 {
		conf.FeeRecipient = weavetest.NewCondition().Address()
	}
	assert.Nil(t, gconf.Save(f.db, packageName, &conf))
	_, err := list.Toggle(f.db, f.token, 1)
	assert.Nil(t, err)
	assert.Nil(t, f.cash.IssueCoins(f.db, f.creator, coin.NewCoin(f.token, coin.NewAmount(1000000))))
	return f
}

func (f *fixture) request(amount int64, start rewarder.UnixTime, epochs int64) Request {
	return Request{
		Creator:     f.creator,
		RewardToken: f.token,
		Amount:      coin.NewAmount(amount),
		Start:       start,
		EpochCount:  epochs,
	}
}

func TestCreate(t *testing.T) {
	const now = 10 * hour

	cases := map[string]struct {
		Mutate  func(f *fixture, r *Request)
		WantErr *errors.Error
	}{
		"valid distribution starting now": {
			Mutate: func(f *fixture, r *Request) {},
		},
		"start in the future": {
			Mutate: func(f *fixture, r *Request) { r.Start = 20 * hour },
		},
		"start in the past": {
			Mutate:  func(f *fixture, r *Request) { r.Start = 9 * hour },
			WantErr: errors.ErrStaleStart,
		},
		"start not on an epoch boundary": {
			Mutate:  func(f *fixture, r *Request) { r.Start = 20*hour + 1 },
			WantErr: errors.ErrInvalidDuration,
		},
		"zero epochs": {
			Mutate:  func(f *fixture, r *Request) { r.EpochCount = 0 },
			WantErr: errors.ErrInvalidDuration,
		},
		"longest allowed": {
			Mutate: func(f *fixture, r *Request) { r.EpochCount = 30 * 24 },
		},
		"too long": {
			Mutate:  func(f *fixture, r *Request) { r.EpochCount = 30*24 + 1 },
			WantErr: errors.ErrInvalidDuration,
		},
		"zero amount": {
			Mutate:  func(f *fixture, r *Request) { r.Amount = coin.NewAmount(0) },
			WantErr: errors.ErrInvalidAmount,
		},
		"token not whitelisted": {
			Mutate:  func(f *fixture, r *Request) { r.RewardToken = weavetest.NewToken() },
			WantErr: errors.ErrNotWhitelisted,
		},
		"creator cannot cover the deposit": {
			Mutate:  func(f *fixture, r *Request) { r.Amount = coin.NewAmount(1000001) },
			WantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 0)
			req := f.request(3000, now, 50)
			tc.Mutate(f, &req)

			id, err := f.ledger.Create(f.db, now, req)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				assertNothingCreated(t, f, req.RewardToken)
				return
			}

			d, err := f.ledger.Get(f.db, id)
			assert.Nil(t, err)
			assert.Equal(t, req.Amount.String(), d.TotalAmount.String())
			assert.Equal(t, int64(req.Start)/hour, d.StartEpoch)
			assert.Equal(t, rewarder.UnixTime(now), d.CreatedAt)

			escrow, err := f.cash.Balance(f.db, cash.EscrowAddress, req.RewardToken)
			assert.Nil(t, err)
			assert.Equal(t, req.Amount.String(), escrow.String())
		})
	}
}

func TestCreateWithProtocolFee(t *testing.T) {
	// 3% fee
	f := newFixture(t, 30000000)
	id, err := f.ledger.Create(f.db, 0, f.request(1000, 0, 10))
	assert.Nil(t, err)

	d, err := f.ledger.Get(f.db, id)
	assert.Nil(t, err)
	assert.Equal(t, "970", d.TotalAmount.String())

	conf, err := LoadConfiguration(f.db)
	assert.Nil(t, err)
	fee, err := f.cash.Balance(f.db, conf.FeeRecipient, f.token)
	assert.Nil(t, err)
	assert.Equal(t, "30", fee.String())
	escrow, err := f.cash.Balance(f.db, cash.EscrowAddress, f.token)
	assert.Nil(t, err)
	assert.Equal(t, "970", escrow.String())
	left, err := f.cash.Balance(f.db, f.creator, f.token)
	assert.Nil(t, err)
	assert.Equal(t, "999000", left.String())
}

func TestCreateWithFeeCannotCoverDeposit(t *testing.T) {
	f := newFixture(t, 30000000)
	_, err := f.ledger.Create(f.db, 0, f.request(1000001, 0, 10))
	assert.IsErr(t, errors.ErrAmount, err)

	assertNothingCreated(t, f, f.token)
	conf, err := LoadConfiguration(f.db)
	assert.Nil(t, err)
	fee, err := f.cash.Balance(f.db, conf.FeeRecipient, f.token)
	assert.Nil(t, err)
	assert.Equal(t, true, fee.IsZero())
	left, err := f.cash.Balance(f.db, f.creator, f.token)
	assert.Nil(t, err)
	assert.Equal(t, "1000000", left.String())
}

// assertNothingCreated checks that a rejected request left no distribution,
// consumed no nonce and escrowed nothing.
func assertNothingCreated(t testing.TB, f *fixture, token rewarder.Address) {
	t.Helper()
	n, err := f.ledger.Count(f.db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)
	nonce, err := f.ledger.Nonce(f.db, f.creator)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), nonce)
	escrow, err := f.cash.Balance(f.db, cash.EscrowAddress, token)
	assert.Nil(t, err)
	assert.Equal(t, true, escrow.IsZero())
}

func TestIDsFollowCreatorNonce(t *testing.T) {
	f := newFixture(t, 0)

	n, err := f.ledger.Nonce(f.db, f.creator)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)

	first, err := f.ledger.Create(f.db, 0, f.request(10, 0, 1))
	assert.Nil(t, err)
	second, err := f.ledger.Create(f.db, 0, f.request(10, 0, 1))
	assert.Nil(t, err)

	assert.Equal(t, DistributionID(f.creator, 0), first)
	assert.Equal(t, DistributionID(f.creator, 1), second)
}

func TestListing(t *testing.T) {
	f := newFixture(t, 0)
	other := weavetest.NewCondition().Address()
	assert.Nil(t, f.cash.IssueCoins(f.db, other, coin.NewCoin(f.token, coin.NewAmount(100))))

	a, err := f.ledger.Create(f.db, 0, f.request(10, 0, 1))
	assert.Nil(t, err)
	req := f.request(20, 0, 2)
	req.Creator = other
	b, err := f.ledger.Create(f.db, 0, req)
	assert.Nil(t, err)
	c, err := f.ledger.Create(f.db, 0, f.request(30, 0, 3))
	assert.Nil(t, err)

	count, err := f.ledger.Count(f.db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), count)

	for i, want := range [][]byte{a, b, c} {
		d, err := f.ledger.ByIndex(f.db, int64(i))
		assert.Nil(t, err)
		assert.Equal(t, want, d.ID)
	}
	_, err = f.ledger.ByIndex(f.db, 3)
	assert.IsErr(t, errors.ErrNotFound, err)

	mine, err := f.ledger.ByCreator(f.db, f.creator)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(mine))
	assert.Equal(t, a, mine[0].ID)
	assert.Equal(t, c, mine[1].ID)

	_, err = f.ledger.Get(f.db, DistributionID(other, 7))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestActiveDistributions(t *testing.T) {
	f := newFixture(t, 0)
	pool := weavetest.NewCondition().Address()

	// Epochs [0, 2), [1, 4) and [3, 4).
	early, err := f.ledger.Create(f.db, 0, f.request(10, 0, 2))
	assert.Nil(t, err)
	req := f.request(10, 1*hour, 3)
	req.Pool = pool
	pooled, err := f.ledger.Create(f.db, 0, req)
	assert.Nil(t, err)
	late, err := f.ledger.Create(f.db, 0, f.request(10, 3*hour, 1))
	assert.Nil(t, err)

	ids := func(s Sequence) [][]byte {
		t.Helper()
		all, err := Collect(s)
		assert.Nil(t, err)
		var out [][]byte
		for _, d := range all {
			out = append(out, d.ID)
		}
		return out
	}

	assert.Equal(t, [][]byte{early}, ids(f.ledger.ActiveDistributions(f.db, 0)))
	assert.Equal(t, [][]byte{early, pooled}, ids(f.ledger.ActiveDistributions(f.db, 1)))
	assert.Equal(t, [][]byte{pooled, late}, ids(f.ledger.ActiveDistributions(f.db, 3)))
	assert.Equal(t, 0, len(ids(f.ledger.ActiveDistributions(f.db, 4))))

	// A sequence can be consumed more than once.
	seq := f.ledger.ActiveDistributions(f.db, 1)
	assert.Equal(t, ids(seq), ids(seq))

	assert.Equal(t, [][]byte{pooled}, ids(f.ledger.ActiveDistributionsForPool(f.db, pool, 2)))
	assert.Equal(t, 0, len(ids(f.ledger.ActiveDistributionsForPool(f.db, pool, 0))))

	assert.Equal(t, 3, len(ids(f.ledger.All(f.db))))
}

func TestDisbursementForWindow(t *testing.T) {
	f := newFixture(t, 0)
	id, err := f.ledger.Create(f.db, 0, f.request(3000, 0, 50))
	assert.Nil(t, err)

	got, err := f.ledger.DisbursementForWindow(f.db, id, 0, 20*hour)
	assert.Nil(t, err)
	assert.Equal(t, "1200", got.String())

	// Partial epochs are not counted.
	got, err = f.ledger.DisbursementForWindow(f.db, id, 0, 20*hour+hour/2)
	assert.Nil(t, err)
	assert.Equal(t, "1200", got.String())

	_, err = f.ledger.DisbursementForWindow(f.db, DistributionID(f.creator, 99), 0, hour)
	assert.IsErr(t, errors.ErrNotFound, err)
}
