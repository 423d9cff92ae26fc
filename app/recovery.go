package app

import (
	"time"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx, next rewarder.Handler) (_ *rewarder.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx, next rewarder.Handler) (_ *rewarder.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (Logging) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx, next rewarder.Handler) (*rewarder.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx, next rewarder.Handler) (*rewarder.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx rewarder.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := rewarder.GetLogger(ctx).With("duration", delta/time.Microsecond)

	// Message can be empty, the entry still carries the duration.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
