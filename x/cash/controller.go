package cash

import (
	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/orm"
)

// EscrowAddress is the account holding all deposited rewards until they are
// claimed.
var EscrowAddress = rewarder.NewCondition("rewarder", "escrow", nil).Address()

// Controller is the ledger API other extensions depend on.
type Controller interface {
	// Balance returns the amount of a token held by an owner. Zero is
	// returned for an owner that never held the token.
	Balance(db rewarder.ReadOnlyKVStore, owner, token rewarder.Address) (coin.Amount, error)

	// Balances returns all balances of an owner.
	Balances(db rewarder.ReadOnlyKVStore, owner rewarder.Address) ([]coin.Coin, error)

	// MoveCoins transfers a positive amount from src to dest. It fails
	// with ErrAmount if src cannot cover it.
	MoveCoins(db rewarder.KVStore, src, dest rewarder.Address, c coin.Coin) error

	// IssueCoins creates new tokens and credits them to dest.
	IssueCoins(db rewarder.KVStore, dest rewarder.Address, c coin.Coin) error

	// TransferIn moves an amount of a token from the payer to the escrow
	// account.
	TransferIn(db rewarder.KVStore, token, from rewarder.Address, amount coin.Amount) error

	// TransferOut moves an amount of a token from the escrow account to
	// the recipient.
	TransferOut(db rewarder.KVStore, token, to rewarder.Address, amount coin.Amount) error
}

// BaseController is the store backed Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the balance bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBalanceBucket()}
}

func (c BaseController) Balance(db rewarder.ReadOnlyKVStore, owner, token rewarder.Address) (coin.Amount, error) {
	var b Balance
	switch err := c.bucket.One(db, balanceKey(owner, token), &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.Amount{}, nil
	default:
		return coin.Amount{}, errors.Wrap(err, "cannot load balance")
	}
}

func (c BaseController) Balances(db rewarder.ReadOnlyKVStore, owner rewarder.Address) ([]coin.Coin, error) {
	var balances []Balance
	if _, err := c.bucket.ByIndex(db, "owner", owner, &balances); err != nil {
		return nil, errors.Wrap(err, "cannot load balances")
	}
	coins := make([]coin.Coin, 0, len(balances))
	for _, b := range balances {
		coins = append(coins, coin.NewCoin(b.Token, b.Amount))
	}
	return coins, nil
}

func (c BaseController) MoveCoins(db rewarder.KVStore, src, dest rewarder.Address, amount coin.Coin) error {
	if !amount.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount.Amount)
	}
	if err := c.add(db, src, amount.Token, amount.Amount, false); err != nil {
		return err
	}
	return c.add(db, dest, amount.Token, amount.Amount, true)
}

func (c BaseController) IssueCoins(db rewarder.KVStore, dest rewarder.Address, amount coin.Coin) error {
	if !amount.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive issue %s", amount.Amount)
	}
	return c.add(db, dest, amount.Token, amount.Amount, true)
}

func (c BaseController) TransferIn(db rewarder.KVStore, token, from rewarder.Address, amount coin.Amount) error {
	return c.MoveCoins(db, from, EscrowAddress, coin.NewCoin(token, amount))
}

func (c BaseController) TransferOut(db rewarder.KVStore, token, to rewarder.Address, amount coin.Amount) error {
	return c.MoveCoins(db, EscrowAddress, to, coin.NewCoin(token, amount))
}

// add credits or debits a balance. Debit fails if the result would be
// negative. Emptied balances are removed.
func (c BaseController) add(db rewarder.KVStore, owner, token rewarder.Address, amount coin.Amount, credit bool) error {
	current, err := c.Balance(db, owner, token)
	if err != nil {
		return err
	}
	var next coin.Amount
	if credit {
		next = current.Add(amount)
		if err := next.Validate(); err != nil {
			return errors.Wrapf(err, "balance of %s", owner)
		}
	} else {
		next, err = current.Subtract(amount)
		if err != nil {
			return errors.Wrapf(errors.ErrAmount, "insufficient funds: %s has %s, needs %s", owner, current, amount)
		}
	}

	key := balanceKey(owner, token)
	if next.IsZero() {
		if current.IsZero() {
			return nil
		}
		return c.bucket.Delete(db, key)
	}
	_, err = c.bucket.Put(db, key, &Balance{Owner: owner, Token: token, Amount: next})
	return err
}
