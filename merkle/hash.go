package merkle

import (
	"bytes"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
)

// HashSize is the length of every node in the tree.
const HashSize = common.HashLength

// ZeroRoot is the root of an empty tree. It also represents "no root" in
// the root state.
var ZeroRoot = make([]byte, HashSize)

// IsZeroRoot returns true if given root is empty or zero.
func IsZeroRoot(root []byte) bool {
	return len(root) == 0 || bytes.Equal(root, ZeroRoot)
}

// Keccak256 returns the legacy Keccak-256 digest of the concatenated data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

var leafArgs abi.Arguments

func init() {
	address, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	uint256, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	leafArgs = abi.Arguments{
		{Name: "recipient", Type: address},
		{Name: "token", Type: address},
		{Name: "amount", Type: uint256},
	}
}

// EncodeLeaf returns abi.encode(address recipient, address token, uint256
// amount).
func EncodeLeaf(recipient, token rewarder.Address, amount coin.Amount) ([]byte, error) {
	if len(recipient) != common.AddressLength {
		return nil, errors.Field("Recipient", errors.ErrInput, "address must be %d bytes", common.AddressLength)
	}
	if len(token) != common.AddressLength {
		return nil, errors.Field("Token", errors.ErrInput, "address must be %d bytes", common.AddressLength)
	}
	if err := amount.Validate(); err != nil {
		return nil, errors.Field("Amount", err, "invalid amount")
	}
	raw, err := leafArgs.Pack(common.BytesToAddress(recipient), common.BytesToAddress(token), amount.Big())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "abi encode: %s", err)
	}
	return raw, nil
}

// LeafHash returns keccak256(abi.encode(recipient, token, amount)).
func LeafHash(recipient, token rewarder.Address, amount coin.Amount) ([]byte, error) {
	raw, err := EncodeLeaf(recipient, token, amount)
	if err != nil {
		return nil, err
	}
	return Keccak256(raw), nil
}

// HashPair returns the parent of two nodes. The smaller node is hashed
// first.
func HashPair(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	return Keccak256(a, b)
}
