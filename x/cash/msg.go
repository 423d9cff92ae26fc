package cash

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
)

const maxMemoSize = 128

// SendMsg moves tokens between two accounts.
type SendMsg struct {
	Source      rewarder.Address `json:"source"`
	Destination rewarder.Address `json:"destination"`
	Amount      coin.Coin        `json:"amount"`
	Memo        string           `json:"memo,omitempty"`
}

var _ rewarder.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.Append(errs, m.Amount.Validate())
	if !m.Amount.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrap(errors.ErrInput, "too long"))
	}
	return errs
}
