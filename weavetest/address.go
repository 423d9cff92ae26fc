package weavetest

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/iov-one/rewarder"
)

// NewCondition returns a signature condition with random data. Each call
// returns a condition that is unique with an overwhelming probability.
func NewCondition() rewarder.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return rewarder.NewCondition("sigs", "ed25519", data)
}

// NewToken returns a random token contract address.
func NewToken() rewarder.Address {
	return rewarder.NewCondition("erc20", "token", NewCondition()).Address()
}

// SequenceID returns an ID encoded as if it was generated by the orm
// sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
