package coin

import (
	"encoding/json"
	"math/big"

	"github.com/iov-one/rewarder/errors"
)

// MaxUint256 is the biggest amount that can be represented on the settlement
// ledger.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Amount is a non-negative integer number of minimal token units. The zero
// value represents zero.
//
// Amount is immutable, all arithmetic returns a new instance.
type Amount struct {
	i *big.Int
}

// NewAmount returns an amount of n units.
func NewAmount(n int64) Amount {
	return Amount{i: big.NewInt(n)}
}

// NewAmountFromBig returns an amount holding a copy of given value.
func NewAmountFromBig(b *big.Int) Amount {
	if b == nil {
		return Amount{}
	}
	return Amount{i: new(big.Int).Set(b)}
}

// ParseAmount decodes a base 10 representation of an amount.
func ParseAmount(s string) (Amount, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	a := Amount{i: b}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

func (a Amount) int() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return a.i
}

// Big returns a copy of the value.
func (a Amount) Big() *big.Int {
	return new(big.Int).Set(a.int())
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.int().Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.int().Sign() > 0
}

// Cmp compares two amounts and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.int().Cmp(b.int())
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Cmp(b) == 0
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{i: new(big.Int).Add(a.int(), b.int())}
}

// Subtract returns a - b. The result cannot be negative.
func (a Amount) Subtract(b Amount) (Amount, error) {
	res := new(big.Int).Sub(a.int(), b.int())
	if res.Sign() < 0 {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "cannot subtract %s from %s", b, a)
	}
	return Amount{i: res}, nil
}

// Multiply returns a * n.
func (a Amount) Multiply(n int64) Amount {
	return Amount{i: new(big.Int).Mul(a.int(), big.NewInt(n))}
}

// Divide returns floor(a / n). Division by a non positive number is a
// coding error.
func (a Amount) Divide(n int64) (Amount, error) {
	if n <= 0 {
		return Amount{}, errors.Wrapf(errors.ErrHuman, "division by %d", n)
	}
	return Amount{i: new(big.Int).Quo(a.int(), big.NewInt(n))}, nil
}

// MulDiv returns floor(a * mul / div) computed without intermediate
// truncation.
func (a Amount) MulDiv(mul, div Amount) (Amount, error) {
	if !div.IsPositive() {
		return Amount{}, errors.Wrap(errors.ErrHuman, "division by zero")
	}
	res := new(big.Int).Mul(a.int(), mul.int())
	return Amount{i: res.Quo(res, div.int())}, nil
}

// Validate returns an error if the amount cannot be represented on the
// ledger.
func (a Amount) Validate() error {
	i := a.int()
	if i.Sign() < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative amount %s", i)
	}
	if i.Cmp(MaxUint256) > 0 {
		return errors.Wrap(errors.ErrOverflow, "amount exceeds 256 bits")
	}
	return nil
}

// String returns the base 10 representation.
func (a Amount) String() string {
	return a.int().String()
}

// MarshalAmino represents the amount as a base 10 string in the binary
// encoding.
func (a Amount) MarshalAmino() (string, error) {
	return a.String(), nil
}

// UnmarshalAmino decodes the base 10 string representation.
func (a *Amount) UnmarshalAmino(s string) error {
	if s == "" {
		*a = Amount{}
		return nil
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	a.i = b
	return nil
}

// MarshalJSON represents the amount as a string so that no precision is lost
// by JSON clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a string and a number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInput, "amount must be a string or a number")
		}
		s = n.String()
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
