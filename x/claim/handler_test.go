package claim

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestClaimHandler(t *testing.T) {
	f := newFixture(t, 10000)
	snap := f.snapshot(t, 1000)
	assert.Nil(t, f.gov.Propose(f.db, snap.Root, 0))
	h := NewHandler(f.proc)

	leaf, proof, err := snap.Proof(f.b, f.token)
	assert.Nil(t, err)

	cases := map[string]struct {
		Msg         rewarder.Msg
		WantCheck   *errors.Error
		WantDeliver *errors.Error
	}{
		"missing recipient": {
			Msg:         &ClaimMsg{Token: f.token, Amount: leaf.Amount, Proof: proof},
			WantCheck:   errors.ErrEmpty,
			WantDeliver: errors.ErrEmpty,
		},
		"malformed proof": {
			Msg:         &ClaimMsg{Recipient: f.b, Token: f.token, Amount: leaf.Amount, Proof: merkle.Proof{{Sibling: []byte{1}}}},
			WantCheck:   errors.ErrInput,
			WantDeliver: errors.ErrInput,
		},
		"wrong amount": {
			Msg:         &ClaimMsg{Recipient: f.b, Token: f.token, Amount: coin.NewAmount(1), Proof: proof},
			WantDeliver: errors.ErrInvalidProof,
		},
	}
	ctx := rewarder.WithBlockTime(context.Background(), time.Unix(100, 0))
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tx := &weavetest.Tx{Msg: tc.Msg}
			if _, err := h.Check(ctx, f.db, tx); !tc.WantCheck.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := h.Deliver(ctx, f.db, tx); !tc.WantDeliver.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
		})
	}

	// Submitted by anyone, paid to the recipient.
	res, err := h.Deliver(ctx, f.db, &weavetest.Tx{Msg: &ClaimMsg{Recipient: f.b, Token: f.token, Amount: leaf.Amount, Proof: proof}})
	assert.Nil(t, err)
	assert.Equal(t, "750", string(res.Data))
	assertBalance(t, f, f.b, 750)
}
