package weavetest

import "github.com/iov-one/rewarder"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg rewarder.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ rewarder.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (rewarder.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message with configurable routing and validation.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ rewarder.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

// Handler is a mock implementing rewarder.Handler. It counts calls and
// returns configured results.
type Handler struct {
	checkCall   int
	deliverCall int

	// CheckErr if set is returned by the Check method.
	CheckErr error
	// DeliverResult is returned by the Deliver method.
	DeliverResult rewarder.DeliverResult
	// DeliverErr if set is returned by the Deliver method.
	DeliverErr error
}

var _ rewarder.Handler = (*Handler)(nil)

func (h *Handler) Check(rewarder.Context, rewarder.KVStore, rewarder.Tx) (*rewarder.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	return &rewarder.CheckResult{}, nil
}

func (h *Handler) Deliver(rewarder.Context, rewarder.KVStore, rewarder.Tx) (*rewarder.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CheckCallCount returns the number of Check calls.
func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

// DeliverCallCount returns the number of Deliver calls.
func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}
