package orm

import (
	"bytes"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// or a MultiRef of primary keys (!unique).
type index struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
}

func newIndex(bucket, name string, indexer Indexer, unique bool) index {
	return index{
		name:   name,
		id:     []byte(indexPrefix + bucket + "_" + name + ":"),
		index:  indexer,
		unique: unique,
	}
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i index) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the model in the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
func (i index) Update(db rewarder.KVStore, pk []byte, prev, save Model) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var oldKey, newKey []byte
	if prev != nil {
		k, err := i.index(prev)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		oldKey = k
	}
	if save != nil {
		k, err := i.index(save)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		newKey = k
	}

	if prev != nil && save != nil && bytes.Equal(oldKey, newKey) {
		return nil
	}
	if oldKey != nil {
		if err := i.remove(db, oldKey, pk); err != nil {
			return err
		}
	}
	if newKey != nil {
		if err := i.insert(db, newKey, pk); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns all primary keys that are indexed under given value.
func (i index) Keys(db rewarder.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load index")
	}
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal index references")
	}
	return refs.Refs, nil
}

func (i index) insert(db rewarder.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(err, "cannot load index")
	}

	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %q already contains %X", i.name, value)
		}
		return db.Set(key, pk)
	}

	refs := new(MultiRef)
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return errors.Wrap(err, "cannot unmarshal index references")
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return i.save(db, key, refs)
}

func (i index) remove(db rewarder.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(err, "cannot load index")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %q has no %X", i.name, value)
	}

	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrState, "index %q references another key", i.name)
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "cannot unmarshal index references")
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	return i.save(db, key, &refs)
}

func (i index) save(db rewarder.KVStore, key []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal index references")
	}
	return db.Set(key, raw)
}
