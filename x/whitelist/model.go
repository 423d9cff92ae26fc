package whitelist

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/orm"
)

// Token is a whitelisted reward token. Presence in the bucket means the
// token is accepted.
type Token struct {
	Address rewarder.Address `json:"address"`
	// Height at which the token was added.
	AddedAt int64 `json:"added_at"`
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", t.Address.Validate())
	if t.AddedAt < 0 {
		errs = errors.AppendField(errs, "AddedAt", errors.ErrInput)
	}
	return errs
}

func (t *Token) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Token) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

// NewTokenBucket returns a bucket of whitelisted tokens keyed by the token
// address.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("whitelist", &Token{})
}

// Whitelist answers token membership questions and mutates the set.
type Whitelist struct {
	bucket orm.ModelBucket
}

// NewWhitelist returns a store backed whitelist.
func NewWhitelist() Whitelist {
	return Whitelist{bucket: NewTokenBucket()}
}

// IsWhitelisted returns true if given token can be used to fund
// distributions.
func (w Whitelist) IsWhitelisted(db rewarder.ReadOnlyKVStore, token rewarder.Address) (bool, error) {
	switch err := w.bucket.Has(db, token); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Toggle flips the membership of a token. Returned is the membership state
// after the change.
func (w Whitelist) Toggle(db rewarder.KVStore, token rewarder.Address, height int64) (bool, error) {
	ok, err := w.IsWhitelisted(db, token)
	if err != nil {
		return false, err
	}
	if ok {
		return false, w.bucket.Delete(db, token)
	}
	_, err = w.bucket.Put(db, token, &Token{Address: token, AddedAt: height})
	return true, err
}

// List returns all whitelisted tokens ordered by address.
func (w Whitelist) List(db rewarder.ReadOnlyKVStore) ([]rewarder.Address, error) {
	it, err := w.bucket.Iterate(db, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var tokens []rewarder.Address
	for {
		var t Token
		switch _, err := it.LoadNext(&t); {
		case err == nil:
			tokens = append(tokens, t.Address)
		case errors.ErrIteratorDone.Is(err):
			return tokens, nil
		default:
			return nil, err
		}
	}
}
