package cash

import (
	"testing"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/store"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestMoveCoins(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	token := weavetest.NewToken()

	cases := map[string]struct {
		Issue   int64
		Move    int64
		WantErr *errors.Error
		// Balances after the operation.
		WantAlice int64
		WantBob   int64
	}{
		"move part of the balance": {
			Issue:     100,
			Move:      30,
			WantAlice: 70,
			WantBob:   30,
		},
		"move everything": {
			Issue:     100,
			Move:      100,
			WantAlice: 0,
			WantBob:   100,
		},
		"insufficient funds": {
			Issue:     10,
			Move:      11,
			WantErr:   errors.ErrAmount,
			WantAlice: 10,
		},
		"no account": {
			Move:    1,
			WantErr: errors.ErrAmount,
		},
		"zero transfer": {
			Issue:     10,
			Move:      0,
			WantErr:   errors.ErrAmount,
			WantAlice: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			if tc.Issue > 0 {
				assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin(token, coin.NewAmount(tc.Issue))))
			}

			err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin(token, coin.NewAmount(tc.Move)))
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			assertBalance(t, db, ctrl, alice, token, tc.WantAlice)
			assertBalance(t, db, ctrl, bob, token, tc.WantBob)
		})
	}
}

func TestEscrowTransfers(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	payer := weavetest.NewCondition().Address()
	recipient := weavetest.NewCondition().Address()
	token := weavetest.NewToken()

	assert.Nil(t, ctrl.IssueCoins(db, payer, coin.NewCoin(token, coin.NewAmount(500))))
	assert.Nil(t, ctrl.TransferIn(db, token, payer, coin.NewAmount(400)))
	assertBalance(t, db, ctrl, payer, token, 100)
	assertBalance(t, db, ctrl, EscrowAddress, token, 400)

	assert.Nil(t, ctrl.TransferOut(db, token, recipient, coin.NewAmount(150)))
	assertBalance(t, db, ctrl, EscrowAddress, token, 250)
	assertBalance(t, db, ctrl, recipient, token, 150)

	err := ctrl.TransferOut(db, token, recipient, coin.NewAmount(251))
	assert.IsErr(t, errors.ErrAmount, err)
	assertBalance(t, db, ctrl, EscrowAddress, token, 250)
}

func TestBalances(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	owner := weavetest.NewCondition().Address()
	tokenA := weavetest.NewToken()
	tokenB := weavetest.NewToken()

	coins, err := ctrl.Balances(db, owner)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(coins))

	assert.Nil(t, ctrl.IssueCoins(db, owner, coin.NewCoin(tokenA, coin.NewAmount(1))))
	assert.Nil(t, ctrl.IssueCoins(db, owner, coin.NewCoin(tokenB, coin.NewAmount(2))))
	assert.Nil(t, ctrl.IssueCoins(db, owner, coin.NewCoin(tokenB, coin.NewAmount(3))))

	coins, err = ctrl.Balances(db, owner)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(coins))
	total := coin.Amount{}
	for _, c := range coins {
		total = total.Add(c.Amount)
	}
	assert.Equal(t, "6", total.String())
}

func assertBalance(t testing.TB, db rewarder.ReadOnlyKVStore, ctrl Controller, owner, token rewarder.Address, want int64) {
	t.Helper()
	got, err := ctrl.Balance(db, owner, token)
	if err != nil {
		t.Fatalf("cannot get balance: %s", err)
	}
	if !got.Equals(coin.NewAmount(want)) {
		t.Fatalf("want %d balance, got %s", want, got)
	}
}
