package distribution

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/orm"
)

// Sequence is a finite, restartable collection of distributions. Nothing is
// read from the database until an iterator is created.
type Sequence interface {
	// Iterator starts a new pass over the collection.
	Iterator() (Iterator, error)
}

// Iterator returns distributions one at a time. ErrIteratorDone is
// returned when there are no more elements.
type Iterator interface {
	Next() (*Distribution, error)
	Release()
}

// Collect reads the whole sequence into memory.
func Collect(s Sequence) ([]*Distribution, error) {
	it, err := s.Iterator()
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var all []*Distribution
	for {
		switch d, err := it.Next(); {
		case err == nil:
			all = append(all, d)
		case errors.ErrIteratorDone.Is(err):
			return all, nil
		default:
			return nil, err
		}
	}
}

type bucketSequence struct {
	db     rewarder.ReadOnlyKVStore
	bucket orm.ModelBucket
	match  func(*Distribution) bool
}

func (s *bucketSequence) Iterator() (Iterator, error) {
	it, err := s.bucket.Iterate(s.db, false)
	if err != nil {
		return nil, err
	}
	return &bucketIterator{it: it, match: s.match}, nil
}

type bucketIterator struct {
	it    orm.ModelIterator
	match func(*Distribution) bool
}

func (i *bucketIterator) Next() (*Distribution, error) {
	for {
		var d Distribution
		if _, err := i.it.LoadNext(&d); err != nil {
			return nil, err
		}
		if i.match(&d) {
			return &d, nil
		}
	}
}

func (i *bucketIterator) Release() {
	i.it.Release()
}

type poolSequence struct {
	db     rewarder.ReadOnlyKVStore
	bucket orm.ModelBucket
	pool   rewarder.Address
	epoch  int64
}

func (s *poolSequence) Iterator() (Iterator, error) {
	var found []*Distribution
	if _, err := s.bucket.ByIndex(s.db, "pool", s.pool, &found); err != nil {
		return nil, err
	}
	active := found[:0]
	for _, d := range found {
		if d.IsActive(s.epoch) {
			active = append(active, d)
		}
	}
	return &sliceIterator{items: active}, nil
}

type sliceIterator struct {
	items []*Distribution
}

func (i *sliceIterator) Next() (*Distribution, error) {
	if len(i.items) == 0 {
		return nil, errors.ErrIteratorDone
	}
	d := i.items[0]
	i.items = i.items[1:]
	return d, nil
}

func (i *sliceIterator) Release() {
	i.items = nil
}

// NewSliceSequence returns a sequence over distributions already in memory.
func NewSliceSequence(ds []*Distribution) Sequence {
	return sliceSequence(ds)
}

type sliceSequence []*Distribution

func (s sliceSequence) Iterator() (Iterator, error) {
	return &sliceIterator{items: s}, nil
}
