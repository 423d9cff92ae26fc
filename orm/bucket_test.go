package orm

import (
	"testing"

	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/store"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
)

type thing struct {
	Name  string
	Owner []byte
}

var _ Model = (*thing)(nil)

func (t *thing) Validate() error {
	if t.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	return nil
}

func (t *thing) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *thing) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

type other struct {
	thing
}

func newThingBucket() ModelBucket {
	return NewModelBucket("thing", &thing{},
		WithIDSequence(NewSequence("thing", "id")),
		WithIndex("name", func(m Model) ([]byte, error) {
			return []byte(m.(*thing).Name), nil
		}, true),
		WithIndex("owner", func(m Model) ([]byte, error) {
			return m.(*thing).Owner, nil
		}, false),
	)
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := newThingBucket()

	key, err := b.Put(db, nil, &thing{Name: "first", Owner: []byte("alice")})
	assert.Nil(t, err)
	assert.Equal(t, weavetest.SequenceID(1), key)

	key2, err := b.Put(db, nil, &thing{Name: "second", Owner: []byte("alice")})
	assert.Nil(t, err)
	assert.Equal(t, weavetest.SequenceID(2), key2)

	var got thing
	assert.Nil(t, b.One(db, key, &got))
	assert.Equal(t, "first", got.Name)
	assert.Nil(t, b.Has(db, key))

	_, err = b.Put(db, nil, &thing{})
	assert.IsErr(t, errors.ErrEmpty, err)
	assert.IsErr(t, errors.ErrType, b.One(db, key, &other{}))

	assert.Nil(t, b.Delete(db, key))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, key, &got))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, key))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, key))
}

func TestModelBucketIndexes(t *testing.T) {
	db := store.MemStore()
	b := newThingBucket()

	k1, err := b.Put(db, nil, &thing{Name: "a", Owner: []byte("alice")})
	assert.Nil(t, err)
	k2, err := b.Put(db, nil, &thing{Name: "b", Owner: []byte("alice")})
	assert.Nil(t, err)
	k3, err := b.Put(db, nil, &thing{Name: "c", Owner: []byte("bob")})
	assert.Nil(t, err)

	// unique index rejects a duplicate
	_, err = b.Put(db, nil, &thing{Name: "a", Owner: []byte("carol")})
	assert.IsErr(t, errors.ErrDuplicate, err)

	var byOwner []thing
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &byOwner)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k1, k2}, keys)
	assert.Equal(t, 2, len(byOwner))
	assert.Equal(t, "a", byOwner[0].Name)
	assert.Equal(t, "b", byOwner[1].Name)

	var byName []*thing
	keys, err = b.ByIndex(db, "name", []byte("c"), &byName)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k3}, keys)
	assert.Equal(t, "bob", string(byName[0].Owner))

	// moving an entity to another owner updates the index
	_, err = b.Put(db, k2, &thing{Name: "b", Owner: []byte("bob")})
	assert.Nil(t, err)
	var moved []thing
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &moved)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k2, k3}, keys)

	// deleting removes index entries
	assert.Nil(t, b.Delete(db, k1))
	var none []thing
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &none)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))
	assert.Equal(t, 0, len(none))

	_, err = b.ByIndex(db, "unknown", nil, &none)
	assert.IsErr(t, errors.ErrHuman, err)
	var wrong []other
	_, err = b.ByIndex(db, "owner", []byte("bob"), &wrong)
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := newThingBucket()
	for _, name := range []string{"x", "y", "z"} {
		_, err := b.Put(db, nil, &thing{Name: name})
		assert.Nil(t, err)
	}
	// a record of another bucket must not be visible
	foreign := NewModelBucket("thinga", &thing{})
	_, err := foreign.Put(db, []byte("k"), &thing{Name: "foreign"})
	assert.Nil(t, err)

	collect := func(reverse bool) []string {
		it, err := b.Iterate(db, reverse)
		assert.Nil(t, err)
		defer it.Release()
		var names []string
		for {
			var th thing
			_, err := it.LoadNext(&th)
			if errors.ErrIteratorDone.Is(err) {
				return names
			}
			assert.Nil(t, err)
			names = append(names, th.Name)
		}
	}
	assert.Equal(t, []string{"x", "y", "z"}, collect(false))
	assert.Equal(t, []string{"z", "y", "x"}, collect(true))
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("thinh"), prefixEnd([]byte("thing")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}

func TestBucketNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("X", &thing{}) })
	assert.Panics(t, func() {
		NewModelBucket("abc", &thing{},
			WithIndex("dup", nil, false),
			WithIndex("dup", nil, false))
	})
}
