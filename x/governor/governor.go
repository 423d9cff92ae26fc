package governor

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/orm"
)

// Governor is the dispute period state machine.
type Governor struct {
	bucket orm.ModelBucket
}

// NewGovernor returns a store backed governor.
func NewGovernor() Governor {
	return Governor{bucket: newStateBucket()}
}

// State returns the current root state. A zero state is returned if no
// root was ever proposed.
func (g Governor) State(db rewarder.ReadOnlyKVStore) (*RootState, error) {
	var s RootState
	switch err := g.bucket.One(db, stateKey, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &RootState{}, nil
	default:
		return nil, err
	}
}

func (g Governor) save(db rewarder.KVStore, s *RootState) error {
	_, err := g.bucket.Put(db, stateKey, s)
	return err
}

// Propose makes root the pending root. Any previously pending root is
// discarded and the dispute period starts again. ErrZeroDisputePeriod is
// returned until a dispute period is configured.
func (g Governor) Propose(db rewarder.KVStore, root []byte, now rewarder.UnixTime) error {
	if len(root) != merkle.HashSize || merkle.IsZeroRoot(root) {
		return errors.Wrapf(errors.ErrInput, "root must be a non zero %d byte hash", merkle.HashSize)
	}
	conf, err := loadConf(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(errors.ErrZeroDisputePeriod, "governor is not configured")
	case err != nil:
		return err
	}
	if conf.DisputePeriodSeconds <= 0 {
		return errors.Wrap(errors.ErrZeroDisputePeriod, "cannot propose")
	}
	s, err := g.State(db)
	if err != nil {
		return err
	}
	s.PendingRoot = append([]byte(nil), root...)
	s.ProposedAt = now
	s.DisputePeriodSeconds = conf.DisputePeriodSeconds
	return g.save(db, s)
}

// Tick promotes the pending root if its dispute period has ended. It is a
// no-op otherwise. Returned is true if a root was promoted.
func (g Governor) Tick(db rewarder.KVStore, now rewarder.UnixTime) (bool, error) {
	s, err := g.State(db)
	if err != nil {
		return false, err
	}
	if !s.HasPending() || now < s.ActivatesAt() {
		return false, nil
	}
	s.ActiveRoot = s.PendingRoot
	s.PendingRoot = nil
	return true, g.save(db, s)
}

// GoverningRoot returns the active root, or merkle.ZeroRoot if no root was
// activated yet. It does not promote a pending root.
func (g Governor) GoverningRoot(db rewarder.ReadOnlyKVStore) ([]byte, error) {
	s, err := g.State(db)
	if err != nil {
		return nil, err
	}
	if len(s.ActiveRoot) == 0 {
		return append([]byte(nil), merkle.ZeroRoot...), nil
	}
	return s.ActiveRoot, nil
}

// Status reports the state of the governor at given time without changing
// it.
func (g Governor) Status(db rewarder.ReadOnlyKVStore, now rewarder.UnixTime) (Status, error) {
	s, err := g.State(db)
	if err != nil {
		return Empty, err
	}
	switch {
	case s.HasPending() && now >= s.ActivatesAt():
		return ReadyToActivate, nil
	case s.HasPending():
		return PendingReview, nil
	case len(s.ActiveRoot) != 0:
		return Active, nil
	default:
		return Empty, nil
	}
}
