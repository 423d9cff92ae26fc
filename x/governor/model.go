package governor

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/orm"
)

// RootState holds the active root and the root awaiting activation.
type RootState struct {
	// ActiveRoot is empty until the first root is activated.
	ActiveRoot []byte `json:"active_root"`
	// PendingRoot is empty when nothing awaits activation.
	PendingRoot []byte            `json:"pending_root"`
	ProposedAt  rewarder.UnixTime `json:"proposed_at"`
	// DisputePeriodSeconds is the configured period at the time the
	// pending root was proposed.
	DisputePeriodSeconds int64 `json:"dispute_period_seconds"`
}

var _ orm.Model = (*RootState)(nil)

func (s *RootState) Validate() error {
	var errs error
	if len(s.ActiveRoot) != 0 && len(s.ActiveRoot) != merkle.HashSize {
		errs = errors.AppendField(errs, "ActiveRoot", errors.ErrInput)
	}
	if len(s.PendingRoot) != 0 {
		if len(s.PendingRoot) != merkle.HashSize {
			errs = errors.AppendField(errs, "PendingRoot", errors.ErrInput)
		}
		if s.DisputePeriodSeconds <= 0 {
			errs = errors.AppendField(errs, "DisputePeriodSeconds", errors.ErrZeroDisputePeriod)
		}
	}
	errs = errors.AppendField(errs, "ProposedAt", s.ProposedAt.Validate())
	return errs
}

func (s *RootState) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *RootState) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

// HasPending returns true if a root awaits activation.
func (s *RootState) HasPending() bool {
	return len(s.PendingRoot) != 0
}

// ActivatesAt returns the moment the pending root can be promoted.
func (s *RootState) ActivatesAt() rewarder.UnixTime {
	return s.ProposedAt + rewarder.UnixTime(s.DisputePeriodSeconds)
}

// Status describes the state of the governor at a point in time.
type Status int

const (
	// Empty means no root was ever proposed.
	Empty Status = iota
	// PendingReview means a root waits for the dispute period to end.
	PendingReview
	// ReadyToActivate means the dispute period of the pending root ended
	// but it was not promoted yet.
	ReadyToActivate
	// Active means an active root exists and nothing is pending.
	Active
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "empty"
	case PendingReview:
		return "pending_review"
	case ReadyToActivate:
		return "ready_to_activate"
	case Active:
		return "active"
	}
	return "unknown"
}

var stateKey = []byte("state")

func newStateBucket() orm.ModelBucket {
	return orm.NewModelBucket("governor", &RootState{})
}
