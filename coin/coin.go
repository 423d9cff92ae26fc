package coin

import (
	"fmt"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// Coin is an amount of a single token.
type Coin struct {
	Token  rewarder.Address `json:"token"`
	Amount Amount           `json:"amount"`
}

// NewCoin returns a coin of given token.
func NewCoin(token rewarder.Address, amount Amount) Coin {
	return Coin{Token: token, Amount: amount}
}

// Validate returns an error if the token address or the amount is invalid.
func (c Coin) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return errors.Field("Token", err, "invalid token")
	}
	if err := c.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "invalid amount")
	}
	return nil
}

// String provides a human readable representation of the coin.
func (c Coin) String() string {
	return fmt.Sprintf("%s %s", c.Amount, c.Token)
}
