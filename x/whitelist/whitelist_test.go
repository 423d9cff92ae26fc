package whitelist

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/gconf"
	"github.com/iov-one/rewarder/store"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestToggle(t *testing.T) {
	db := store.MemStore()
	list := NewWhitelist()
	token := weavetest.NewToken()

	ok, err := list.IsWhitelisted(db, token)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	on, err := list.Toggle(db, token, 3)
	assert.Nil(t, err)
	assert.Equal(t, true, on)
	ok, err = list.IsWhitelisted(db, token)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	tokens, err := list.List(db)
	assert.Nil(t, err)
	assert.Equal(t, []rewarder.Address{token}, tokens)

	on, err = list.Toggle(db, token, 4)
	assert.Nil(t, err)
	assert.Equal(t, false, on)
	ok, err = list.IsWhitelisted(db, token)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestToggleHandler(t *testing.T) {
	owner := weavetest.NewCondition()
	token := weavetest.NewToken()

	cases := map[string]struct {
		Signer     rewarder.Condition
		Msg        rewarder.Msg
		WantErr    *errors.Error
		WantListed bool
	}{
		"owner adds a token": {
			Signer:     owner,
			Msg:        &ToggleTokenMsg{Token: token},
			WantListed: true,
		},
		"stranger cannot toggle": {
			Signer:  weavetest.NewCondition(),
			Msg:     &ToggleTokenMsg{Token: token},
			WantErr: errors.ErrUnauthorized,
		},
		"missing token": {
			Signer:  owner,
			Msg:     &ToggleTokenMsg{},
			WantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			assert.Nil(t, gconf.Save(db, packageName, &Configuration{Owner: owner.Address()}))

			h := NewToggleHandler(&weavetest.Auth{Signer: tc.Signer})
			tx := &weavetest.Tx{Msg: tc.Msg}
			ctx := context.Background()

			if _, err := h.Check(ctx, db, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := h.Deliver(ctx, db, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			ok, err := NewWhitelist().IsWhitelisted(db, token)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantListed, ok)
		})
	}
}

func TestUpdateConfiguration(t *testing.T) {
	owner := weavetest.NewCondition()
	next := weavetest.NewCondition().Address()

	db := store.MemStore()
	assert.Nil(t, gconf.Save(db, packageName, &Configuration{Owner: owner.Address()}))

	r := &routes{}
	RegisterRoutes(r, &weavetest.Auth{Signer: owner})
	h := r.handlers[UpdateConfigurationMsg{}.Path()]

	tx := &weavetest.Tx{Msg: &UpdateConfigurationMsg{Patch: &Configuration{Owner: next}}}
	_, err := h.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, next, conf.Owner)
}

func TestGenesis(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	tokenA := weavetest.NewToken()
	tokenB := weavetest.NewToken()

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    []rewarder.Address
	}{
		"configuration and tokens": {
			Genesis: fmt.Sprintf(`{"conf": {"whitelist": {"owner": %q}}, "whitelist": [%q, %q]}`, owner, tokenA, tokenB),
			Want:    []rewarder.Address{tokenA, tokenB},
		},
		"configuration only": {
			Genesis: fmt.Sprintf(`{"conf": {"whitelist": {"owner": %q}}}`, owner),
		},
		"missing configuration": {
			Genesis: `{}`,
			WantErr: errors.ErrNotFound,
		},
		"duplicated token": {
			Genesis: fmt.Sprintf(`{"conf": {"whitelist": {"owner": %q}}, "whitelist": [%q, %q]}`, owner, tokenA, tokenA),
			WantErr: errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts rewarder.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			if err := (Initializer{}).FromGenesis(opts, db); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}
			for _, token := range tc.Want {
				ok, err := NewWhitelist().IsWhitelisted(db, token)
				assert.Nil(t, err)
				assert.Equal(t, true, ok)
			}
		})
	}
}

type routes struct {
	handlers map[string]rewarder.Handler
}

func (r *routes) Handle(path string, h rewarder.Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]rewarder.Handler)
	}
	r.handlers[path] = h
}
