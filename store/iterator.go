package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
	"github.com/iov-one/rewarder/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// btreeIter streams btree items from a producer goroutine. The btree must not
// be modified while the iterator is in use.
type btreeIter struct {
	data    btree.Item
	hasMore bool
	read    <-chan btree.Item
	stop    chan<- struct{}
	once    sync.Once
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	return startBtreeIter(func(insert btree.ItemIterator) {
		switch {
		case start == nil && end == nil:
			bt.Ascend(insert)
		case start == nil:
			bt.AscendLessThan(bkey{end}, insert)
		case end == nil:
			bt.AscendGreaterOrEqual(bkey{start}, insert)
		default:
			bt.AscendRange(bkey{start}, bkey{end}, insert)
		}
	})
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	return startBtreeIter(func(insert btree.ItemIterator) {
		switch {
		case start == nil && end == nil:
			bt.Descend(insert)
		case start == nil:
			bt.DescendLessOrEqual(bkeyLess{end}, insert)
		case end == nil:
			bt.DescendGreaterThan(bkeyLess{start}, insert)
		default:
			bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
		}
	})
}

func startBtreeIter(walk func(btree.ItemIterator)) *btreeIter {
	read := make(chan btree.Item)
	// ensure we never block when we call close()
	stop := make(chan struct{}, 1)
	iter := &btreeIter{
		read: read,
		stop: stop,
	}

	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			return false
		}
	}

	go func() {
		walk(insert)
		close(read)
	}()

	iter.next()
	return iter
}

func (b *btreeIter) wrap(parent Iterator, reverse bool) (*itemIter, error) {
	iter := &itemIter{
		wrap:    b,
		parent:  &peekIter{it: parent},
		reverse: reverse,
	}
	if err := iter.parent.advance(); err != nil {
		iter.Release()
		return nil, err
	}
	return iter, nil
}

func (b *btreeIter) next() {
	b.data, b.hasMore = <-b.read
}

func (b *btreeIter) close() {
	b.once.Do(func() {
		b.stop <- struct{}{}
		// drain so the producer can notice the stop signal
		for range b.read {
		}
		b.hasMore = false
	})
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() keyer {
	return b.data.(keyer)
}

func (b *btreeIter) valid() bool {
	return b.hasMore
}

// peekIter buffers a single element of an Iterator so that it can be
// compared before being consumed.
type peekIter struct {
	it    Iterator
	key   []byte
	value []byte
	valid bool
}

func (p *peekIter) advance() error {
	key, value, err := p.it.Next()
	switch {
	case err == nil:
		p.key, p.value, p.valid = key, value, true
		return nil
	case errors.ErrIteratorDone.Is(err):
		p.key, p.value, p.valid = nil, nil, false
		return nil
	default:
		p.valid = false
		return err
	}
}

// itemIter combines the cached writes with the parent store, taking into
// consideration overwrites and deletes.
type itemIter struct {
	wrap    *btreeIter
	parent  *peekIter
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

// Next returns the next visible key-value pair.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		src := i.firstKey()
		switch src {
		case none:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "btree")
		case parent:
			key, value = i.parent.key, i.parent.value
			if err := i.parent.advance(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		case us, both:
			item := i.wrap.get()
			i.wrap.next()
			if src == both {
				if err := i.parent.advance(); err != nil {
					return nil, nil, err
				}
			}
			if set, ok := item.(setItem); ok {
				return set.key, set.value, nil
			}
			// a deleted item hides the parent entry, keep going
		}
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.it.Release()
	i.wrap.close()
}

// firstKey selects the iterator with the lowest key is any
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parent.valid {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.key, i.wrap.get().Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
