package app

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// Result is the client facing outcome of processing a message.
type Result struct {
	Code   uint32 `json:"code"`
	Log    string `json:"log,omitempty"`
	Data   []byte `json:"data,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// IsOK returns true if the result represents a success.
func (r Result) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// DeliverOrError returns a result describing either the successful delivery
// or the error. Unless debug is set, errors without a code are redacted.
func DeliverOrError(res *rewarder.DeliverResult, err error, debug bool) Result {
	if err != nil {
		code, log := errors.Info(err, debug)
		return Result{Code: code, Log: log}
	}
	return Result{Data: res.Data, Log: res.Log}
}

// CheckOrError returns a result describing either the successful check or
// the error.
func CheckOrError(res *rewarder.CheckResult, err error, debug bool) Result {
	if err != nil {
		code, log := errors.Info(err, debug)
		return Result{Code: code, Log: log}
	}
	return Result{Log: res.Log}
}
