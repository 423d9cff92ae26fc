package app

import (
	"context"
	"testing"

	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/store"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{DeliverErr: errors.ErrAmount}
	r.Handle("test/good", good)
	r.Handle("test/bad", bad)

	assert.Panics(t, func() { r.Handle("test/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("", good) })

	ctx := context.Background()
	db := store.MemStore()

	cases := map[string]struct {
		tx          *weavetest.Tx
		wantCheck   *errors.Error
		wantDeliver *errors.Error
	}{
		"registered path": {
			tx: &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/good"}},
		},
		"handler error is returned": {
			tx:          &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/bad"}},
			wantDeliver: errors.ErrAmount,
		},
		"missing path": {
			tx:          &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/missing"}},
			wantCheck:   errors.ErrNotFound,
			wantDeliver: errors.ErrNotFound,
		},
		"broken transaction": {
			tx:          &weavetest.Tx{Err: errors.ErrInput},
			wantCheck:   errors.ErrInput,
			wantDeliver: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := r.Check(ctx, db, tc.tx)
			assert.IsErr(t, tc.wantCheck, err)
			_, err = r.Deliver(ctx, db, tc.tx)
			assert.IsErr(t, tc.wantDeliver, err)
		})
	}

	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())
	assert.Equal(t, 1, bad.DeliverCallCount())
	assert.Equal(t, 2, len(r.Paths()))
}
