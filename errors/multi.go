package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is given, nil is returned. If a single non-nil error is
// given, it is returned as is.
func Append(errs ...error) error {
	var me multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			me = append(me, m...)
		} else {
			me = append(me, e)
		}
	}
	switch len(me) {
	case 0:
		return nil
	case 1:
		return me[0]
	}
	return me
}

// multiErr represents a set of errors. The first one is the one that defines
// the code of the whole group.
type multiErr []error

func (me multiErr) Error() string {
	msgs := make([]string, len(me))
	for i, e := range me {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(me), strings.Join(msgs, "; "))
}

// Unpack returns all grouped errors.
func (me multiErr) Unpack() []error {
	return me
}

// Cause returns the first error, consistent with the fail-fast approach.
func (me multiErr) Cause() error {
	return me[0]
}

// unpacker is implemented by errors that group more than one error.
type unpacker interface {
	Unpack() []error
}
