package orm

import (
	"github.com/iov-one/rewarder"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	rewarder.Persistent
	Validate() error
}

// ModelIterator allows lazy loading of models stored in a bucket.
type ModelIterator interface {
	// LoadNext moves the iterator to the next model and loads it into
	// the passed destination. Returned is the primary key of the loaded
	// model. When there are no more models, ErrIteratorDone is returned.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the Iterator.
	Release()
}
