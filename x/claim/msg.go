package claim

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
)

// ClaimMsg pays out rewards proven by a Merkle proof. Anyone can submit it,
// funds always go to the recipient.
type ClaimMsg struct {
	Recipient rewarder.Address `json:"recipient"`
	Token     rewarder.Address `json:"token"`
	Amount    coin.Amount      `json:"amount"`
	Proof     merkle.Proof     `json:"proof"`
}

var _ rewarder.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string {
	return "claim/claim"
}

func (m *ClaimMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	errs = errors.AppendField(errs, "Proof", m.Proof.Validate())
	return errs
}
