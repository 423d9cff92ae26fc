package tree

import (
	"bytes"
	"sort"

	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/orm"
)

var cdc = amino.NewCodec()

// Leaf is the cumulative amount of a token owed to a recipient.
type Leaf struct {
	Recipient rewarder.Address `json:"recipient"`
	Token     rewarder.Address `json:"token"`
	Amount    coin.Amount      `json:"amount"`
}

// Hash returns the leaf hash as committed in the tree.
func (l Leaf) Hash() ([]byte, error) {
	return merkle.LeafHash(l.Recipient, l.Token, l.Amount)
}

func (l Leaf) key() []byte {
	k := make([]byte, 0, len(l.Recipient)+len(l.Token))
	k = append(k, l.Recipient...)
	return append(k, l.Token...)
}

// sortLeaves orders leaves by recipient and then token bytes.
func sortLeaves(leaves []Leaf) {
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].key(), leaves[j].key()) < 0
	})
}

// Snapshot is a generated tree together with the data it commits to.
type Snapshot struct {
	Root []byte `json:"root"`
	// LeafHashes are in the same order as Leaves.
	LeafHashes       [][]byte          `json:"leaf_hashes"`
	Leaves           []Leaf            `json:"leaves"`
	GeneratedAtEpoch int64             `json:"generated_at_epoch"`
	CreatedAt        rewarder.UnixTime `json:"created_at"`
}

var _ orm.Model = (*Snapshot)(nil)

func (s *Snapshot) Validate() error {
	var errs error
	if len(s.Root) != merkle.HashSize {
		errs = errors.AppendField(errs, "Root", errors.Wrapf(errors.ErrInput, "must be %d bytes", merkle.HashSize))
	}
	if len(s.LeafHashes) != len(s.Leaves) {
		errs = errors.AppendField(errs, "LeafHashes", errors.Wrap(errors.ErrState, "one hash per leaf required"))
	}
	for i := 1; i < len(s.Leaves); i++ {
		if bytes.Compare(s.Leaves[i-1].key(), s.Leaves[i].key()) >= 0 {
			errs = errors.AppendField(errs, "Leaves", errors.Wrapf(errors.ErrState, "leaf %d out of order", i))
			break
		}
	}
	if s.GeneratedAtEpoch < 0 {
		errs = errors.AppendField(errs, "GeneratedAtEpoch", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "CreatedAt", s.CreatedAt.Validate())
	return errs
}

func (s *Snapshot) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *Snapshot) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

// Tree rebuilds the Merkle tree from the stored leaf hashes.
func (s *Snapshot) Tree() (*merkle.Tree, error) {
	return merkle.NewTree(s.LeafHashes)
}

// Find returns the position of the (recipient, token) leaf.
func (s *Snapshot) Find(recipient, token rewarder.Address) (int, error) {
	want := Leaf{Recipient: recipient, Token: token}.key()
	i := sort.Search(len(s.Leaves), func(i int) bool {
		return bytes.Compare(s.Leaves[i].key(), want) >= 0
	})
	if i == len(s.Leaves) || !bytes.Equal(s.Leaves[i].key(), want) {
		return 0, errors.Wrapf(errors.ErrNotFound, "no leaf for %s and token %s", recipient, token)
	}
	return i, nil
}

// Proof returns the leaf of a recipient and token together with its
// inclusion proof.
func (s *Snapshot) Proof(recipient, token rewarder.Address) (*Leaf, merkle.Proof, error) {
	i, err := s.Find(recipient, token)
	if err != nil {
		return nil, nil, err
	}
	t, err := s.Tree()
	if err != nil {
		return nil, nil, err
	}
	proof, err := t.Proof(i)
	if err != nil {
		return nil, nil, err
	}
	leaf := s.Leaves[i]
	return &leaf, proof, nil
}

// History is the append-only store of generated snapshots.
type History struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

// NewHistory returns a snapshot history. Snapshots are kept in insertion
// order and indexed by root.
func NewHistory() History {
	seq := orm.NewSequence("snapshot", "id")
	return History{
		bucket: orm.NewModelBucket("snapshot", &Snapshot{},
			orm.WithIDSequence(seq),
			orm.WithIndex("root", rootIndexer, true),
		),
		seq: seq,
	}
}

func rootIndexer(m orm.Model) ([]byte, error) {
	s, ok := m.(*Snapshot)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return s.Root, nil
}

// Insert appends a snapshot. A snapshot with the same root cannot be
// inserted twice.
func (h History) Insert(db rewarder.KVStore, s *Snapshot) error {
	switch _, err := h.ByRoot(db, s.Root); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "snapshot with root %X", s.Root)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	_, err := h.bucket.Put(db, nil, s)
	return err
}

// Count returns the number of stored snapshots.
func (h History) Count(db rewarder.ReadOnlyKVStore) (int64, error) {
	return h.seq.Curr(db)
}

// Latest returns the most recently inserted snapshot. ErrNotFound is
// returned when the history is empty.
func (h History) Latest(db rewarder.ReadOnlyKVStore) (*Snapshot, error) {
	n, err := h.seq.Curr(db)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no snapshot")
	}
	var s Snapshot
	if err := h.bucket.One(db, orm.EncodeSequence(n), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// All returns every snapshot, oldest first.
func (h History) All(db rewarder.ReadOnlyKVStore) ([]*Snapshot, error) {
	it, err := h.bucket.Iterate(db, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var all []*Snapshot
	for {
		var s Snapshot
		switch _, err := it.LoadNext(&s); {
		case err == nil:
			all = append(all, &s)
		case errors.ErrIteratorDone.Is(err):
			return all, nil
		default:
			return nil, err
		}
	}
}

// ByRoot returns the snapshot with given root.
func (h History) ByRoot(db rewarder.ReadOnlyKVStore, root []byte) (*Snapshot, error) {
	var found []*Snapshot
	if _, err := h.bucket.ByIndex(db, "root", root, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no snapshot with root %X", root)
	}
	return found[0], nil
}
