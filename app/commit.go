package app

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining the
// deliver cache and returning useful state info.
type CommitStore struct {
	committed rewarder.CommitKVStore
	deliver   rewarder.KVCacheWrap
}

// NewCommitStore loads the latest version of the given store and sets up the
// deliver cache.
func NewCommitStore(store rewarder.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (rewarder.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it to disk.
// It then regenerates a new deliver cache.
func (cs *CommitStore) Commit() (rewarder.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return rewarder.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	res, err := cs.committed.Commit()
	if err != nil {
		return res, errors.Wrap(err, "commit")
	}
	cs.deliver = cs.committed.CacheWrap()
	return res, nil
}

// Rollback drops all changes made to the deliver cache since the last
// commit.
func (cs *CommitStore) Rollback() {
	cs.deliver.Discard()
	cs.deliver = cs.committed.CacheWrap()
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() rewarder.CacheableKVStore {
	return cs.deliver
}

// CheckStore returns a throw away cache over the committed state.
func (cs *CommitStore) CheckStore() rewarder.KVCacheWrap {
	return cs.committed.CacheWrap()
}
