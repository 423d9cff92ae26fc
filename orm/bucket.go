package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db rewarder.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db rewarder.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into the
	// database, model is validated using its Validate method.
	// If the key is nil or zero length then a sequence generator is used
	// to create a unique key value.
	// Using a key that already exists in the database cause the value to
	// be overwritten.
	Put(db rewarder.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db rewarder.KVStore, key []byte) error

	// ByIndex returns all entities that are indexed under given value
	// using given index. Result is loaded into the destination that must
	// be a pointer to a slice of models. Returned are the primary keys
	// of loaded models, in the same order.
	ByIndex(db rewarder.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error)

	// Iterate returns a lazy iterator over all entities, ordered by the
	// primary key.
	Iterate(db rewarder.ReadOnlyKVStore, reverse bool) (ModelIterator, error)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if !isBucketName(name) {
			panic(fmt.Sprintf("illegal index name: %q", name))
		}
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q declared twice", name))
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer, unique)
	}
}

// WithIDSequence configures the bucket to use the given sequence instance for
// generating ID.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = &s
	}
}

// NewModelBucket returns a ModelBucket instance.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   reflect.TypeOf(m),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	idSeq   *Sequence
	indexes map[string]index
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix
func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) One(db rewarder.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.validateModel(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X not in the store", mb.name, key)
	}
	return mb.load(raw, dest)
}

// load resets the destination before unmarshaling so that no state from a
// previous use leaks into the result.
func (mb *modelBucket) load(raw []byte, dest Model) error {
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.Zero(v.Type()))
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s", mb.name)
	}
	return nil
}

func (mb *modelBucket) Has(db rewarder.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "zero length key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X not in the store", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db rewarder.KVStore, key []byte, m Model) ([]byte, error) {
	if err := mb.validateModel(m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		if mb.idSeq == nil {
			return nil, errors.Wrap(errors.ErrHuman, "missing key and no ID sequence configured")
		}
		next, err := mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
		key = next
	}

	var prev Model
	if len(mb.indexes) > 0 {
		old := reflect.New(mb.model.Elem()).Interface().(Model)
		switch err := mb.One(db, key, old); {
		case err == nil:
			prev = old
		case errors.ErrNotFound.Is(err):
		default:
			return nil, errors.Wrap(err, "cannot load previous state")
		}
	}
	if err := mb.updateIndexes(db, key, prev, m); err != nil {
		return nil, err
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal %s", mb.name)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db rewarder.KVStore, key []byte) error {
	old := reflect.New(mb.model.Elem()).Interface().(Model)
	if err := mb.One(db, key, old); err != nil {
		return err
	}
	if err := mb.updateIndexes(db, key, old, nil); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) updateIndexes(db rewarder.KVStore, key []byte, prev, save Model) error {
	for name, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, save); err != nil {
			return errors.Wrapf(err, "cannot update index %q", name)
		}
	}
	return nil
}

func (mb *modelBucket) ByIndex(db rewarder.ReadOnlyKVStore, indexName string, value []byte, destination interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", indexName)
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to slice, got %T", destination)
	}
	slice := dest.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}
	if reflect.PtrTo(elemType) != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "%s bucket cannot load into %T", mb.name, destination)
	}

	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		m := reflect.New(elemType)
		if err := mb.One(db, key, m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(err, "cannot load %X", key)
		}
		if isPtr {
			slice = reflect.Append(slice, m)
		} else {
			slice = reflect.Append(slice, m.Elem())
		}
	}
	dest.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Iterate(db rewarder.ReadOnlyKVStore, reverse bool) (ModelIterator, error) {
	start, end := mb.prefix, prefixEnd(mb.prefix)
	var (
		it  rewarder.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &modelIterator{it: it, bucket: mb}, nil
}

func (mb *modelBucket) validateModel(m Model) error {
	if got := reflect.TypeOf(m); got != mb.model {
		return errors.Wrapf(errors.ErrType, "%s bucket stores %s, got %s", mb.name, mb.model, got)
	}
	return nil
}

type modelIterator struct {
	it     rewarder.Iterator
	bucket *modelBucket
}

func (i *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if err := i.bucket.validateModel(dest); err != nil {
		return nil, err
	}
	key, value, err := i.it.Next()
	if err != nil {
		return nil, err
	}
	if err := i.bucket.load(value, dest); err != nil {
		return nil, err
	}
	return key[len(i.bucket.prefix):], nil
}

func (i *modelIterator) Release() {
	i.it.Release()
}

// prefixEnd returns the first key that is greater than all keys starting
// with given prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
