package rewarder

import (
	"github.com/iov-one/rewarder/errors"
)

// EpochClock converts wall-clock time into fixed-width epoch indexes.
//
// Every component that does epoch arithmetic must use the same clock value.
// Recomputing epoch boundaries independently makes accounting and proof
// generation windows drift apart.
type EpochClock struct {
	secondsPerEpoch int64
}

// NewEpochClock returns a clock with epochs of the given width.
func NewEpochClock(secondsPerEpoch int64) (EpochClock, error) {
	if secondsPerEpoch <= 0 {
		return EpochClock{}, errors.Wrapf(errors.ErrInput, "epoch width must be positive, got %d", secondsPerEpoch)
	}
	return EpochClock{secondsPerEpoch: secondsPerEpoch}, nil
}

// SecondsPerEpoch returns the width of a single epoch.
func (c EpochClock) SecondsPerEpoch() int64 {
	return c.secondsPerEpoch
}

// Index returns floor(t / secondsPerEpoch).
func (c EpochClock) Index(t UnixTime) int64 {
	n := int64(t)
	idx := n / c.secondsPerEpoch
	// Go truncates toward zero, round down for times before 1970.
	if n%c.secondsPerEpoch != 0 && n < 0 {
		idx--
	}
	return idx
}

// Start returns the beginning of the epoch that t belongs to.
func (c EpochClock) Start(t UnixTime) UnixTime {
	return c.At(c.Index(t))
}

// At returns the beginning of the epoch with given index.
func (c EpochClock) At(epoch int64) UnixTime {
	return UnixTime(epoch * c.secondsPerEpoch)
}

// IsBoundary returns true if t is the first second of an epoch.
func (c EpochClock) IsBoundary(t UnixTime) bool {
	return c.Start(t) == t
}
