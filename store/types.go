package store

import "github.com/iov-one/rewarder"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = rewarder.ReadOnlyKVStore
type SetDeleter = rewarder.SetDeleter
type KVStore = rewarder.KVStore
type Batch = rewarder.Batch
type Iterator = rewarder.Iterator
type CacheableKVStore = rewarder.CacheableKVStore
type KVCacheWrap = rewarder.KVCacheWrap
type CommitKVStore = rewarder.CommitKVStore
type CommitID = rewarder.CommitID
