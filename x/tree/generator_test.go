package tree

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
	"github.com/iov-one/rewarder/x/distribution"
	"github.com/iov-one/rewarder/x/whitelist"
)

func TestGenerator(t *testing.T) {
	const hour = 3600

	db := store.MemStore()
	creator := weavetest.NewCondition().Address()
	token := weavetest.NewToken()
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()

	assert.Nil(t, gconf.Save(db, "distribution", &distribution.Configuration{
		Owner:              weavetest.NewCondition().Address(),
		SecondsPerEpoch:    hour,
		MaxDurationSeconds: 100 * hour,
	}))
	list := whitelist.NewWhitelist()
	_, err := list.Toggle(db, token, 1)
	assert.Nil(t, err)
	ctrl := cash.NewController()
	assert.Nil(t, ctrl.IssueCoins(db, creator, coin.NewCoin(token, coin.NewAmount(1000))))

	ledger := distribution.NewLedger(ctrl, list)
	_, err = ledger.Create(db, 0, distribution.Request{
		Creator:     creator,
		RewardToken: token,
		Amount:      coin.NewAmount(1000),
		Start:       0,
		EpochCount:  10,
	})
	assert.Nil(t, err)

	history := NewHistory()
	gen := NewGenerator(ledger, history)

	_, err = history.Latest(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	first, err := gen.Generate(db, ShareTable{share(a, 1), share(b, 1)}, 2, 2*hour)
	assert.Nil(t, err)
	assertLeaf(t, first, a, token, 100)
	assertLeaf(t, first, b, token, 100)
	assert.Equal(t, rewarder.UnixTime(2*hour), first.CreatedAt)

	// Only the new epochs use the new weights.
	second, err := gen.Generate(db, ShareTable{share(a, 1), share(b, 3)}, 4, 4*hour)
	assert.Nil(t, err)
	assertLeaf(t, second, a, token, 150)
	assertLeaf(t, second, b, token, 250)

	latest, err := history.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, second.Root, latest.Root)

	// Nothing changed, nothing stored.
	same, err := gen.Generate(db, ShareTable{share(a, 1), share(b, 3)}, 4, 5*hour)
	assert.Nil(t, err)
	assert.Equal(t, second.Root, same.Root)
	n, err := history.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)

	_, err = gen.Generate(db, ShareTable{share(a, 1)}, 3, 5*hour)
	assert.IsErr(t, errors.ErrInput, err)

	rebuilt, err := gen.Rebuild(db, ShareTable{share(a, 1), share(b, 3)}, 4, 6*hour)
	assert.Nil(t, err)
	assertLeaf(t, rebuilt, a, token, 100)
	assertLeaf(t, rebuilt, b, token, 300)

	all, err := history.All(db)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(all))
	assert.Equal(t, first.Root, all[0].Root)
	assert.Equal(t, rebuilt.Root, all[2].Root)

	found, err := history.ByRoot(db, first.Root)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), found.GeneratedAtEpoch)
	_, err = history.ByRoot(db, make([]byte, 32))
	assert.IsErr(t, errors.ErrNotFound, err)

	// Snapshots are append only, the same root cannot be stored twice.
	assert.IsErr(t, errors.ErrDuplicate, history.Insert(db, first))

	again, err := gen.Rebuild(db, ShareTable{share(a, 1), share(b, 3)}, 4, 6*hour)
	assert.Nil(t, err)
	assert.Equal(t, rebuilt.Root, again.Root)
	_, err = gen.Rebuild(db, ShareTable{share(a, 1), share(b, 1)}, 2, 6*hour)
	assert.IsErr(t, errors.ErrDuplicate, err)
	n, err = history.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), n)

	_, err = gen.Generate(db, ShareTable{}, 6, 7*hour)
	assert.IsErr(t, errors.ErrEmptyShareTable, err)
}

func TestGeneratorRejectsFutureEpochs(t *testing.T) {
	const hour = 3600

	db := store.MemStore()
	creator := weavetest.NewCondition().Address()
	token := weavetest.NewToken()
	a := weavetest.NewCondition().Address()

	assert.Nil(t, gconf.Save(db, "distribution", &distribution.Configuration{
		Owner:              weavetest.NewCondition().Address(),
		SecondsPerEpoch:    hour,
		MaxDurationSeconds: 100 * hour,
	}))
	list := whitelist.NewWhitelist()
	_, err := list.Toggle(db, token, 1)
	assert.Nil(t, err)
	ctrl := cash.NewController()
	assert.Nil(t, ctrl.IssueCoins(db, creator, coin.NewCoin(token, coin.NewAmount(2000))))

	ledger := distribution.NewLedger(ctrl, list)
	create := func(start rewarder.UnixTime) {
		t.Helper()
		_, err := ledger.Create(db, start, distribution.Request{
			Creator:     creator,
			RewardToken: token,
			Amount:      coin.NewAmount(1000),
			Start:       start,
			EpochCount:  10,
		})
		assert.Nil(t, err)
	}
	create(0)

	history := NewHistory()
	gen := NewGenerator(ledger, history)
	shares := ShareTable{share(a, 1)}

	_, err = gen.Generate(db, shares, 50, 1*hour)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = gen.Rebuild(db, shares, 2, 1*hour)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = gen.Generate(db, shares, -1, 1*hour)
	assert.IsErr(t, errors.ErrInput, err)
	n, err := history.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)

	first, err := gen.Generate(db, shares, 1, 1*hour)
	assert.Nil(t, err)
	assertLeaf(t, first, a, token, 100)

	// A distribution created after the snapshot is fully accounted for by
	// the next incremental generation.
	create(2 * hour)
	next, err := gen.Generate(db, shares, 60, 60*hour)
	assert.Nil(t, err)
	assertLeaf(t, next, a, token, 2000)

	full, err := gen.Rebuild(db, shares, 60, 60*hour)
	assert.Nil(t, err)
	assert.Equal(t, next.Root, full.Root)
}
