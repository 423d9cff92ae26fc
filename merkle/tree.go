package merkle

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/iov-one/rewarder/errors"
)

// Tree is an immutable Merkle tree. Leaves are kept in the order they were
// given.
type Tree struct {
	// levels[0] are the leaves, the last level holds the root.
	levels [][][]byte
}

// NewTree builds a tree over given leaf hashes. Every leaf must be HashSize
// bytes long.
func NewTree(leaves [][]byte) (*Tree, error) {
	level := make([][]byte, len(leaves))
	for i, l := range leaves {
		if len(l) != HashSize {
			return nil, errors.Wrapf(errors.ErrInput, "leaf %d is %d bytes", i, len(l))
		}
		level[i] = append([]byte(nil), l...)
	}
	t := &Tree{levels: [][][]byte{level}}
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, HashPair(level[i], level[i+1]))
		}
		t.levels = append(t.levels, next)
		level = next
	}
	return t, nil
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.levels[0])
}

// Leaves returns the leaf hashes.
func (t *Tree) Leaves() [][]byte {
	return t.levels[0]
}

// Root returns the root hash, or ZeroRoot for an empty tree.
func (t *Tree) Root() []byte {
	top := t.levels[len(t.levels)-1]
	if len(top) == 0 {
		return append([]byte(nil), ZeroRoot...)
	}
	return append([]byte(nil), top[0]...)
}

// Proof returns the path from the leaf at given position to the root.
func (t *Tree) Proof(index int) (Proof, error) {
	if index < 0 || index >= t.Len() {
		return nil, errors.Wrapf(errors.ErrNotFound, "leaf %d", index)
	}
	var proof Proof
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := index ^ 1
		if sibling < len(level) {
			proof = append(proof, ProofStep{
				Sibling: append([]byte(nil), level[sibling]...),
				Left:    sibling < index,
			})
		}
		index /= 2
	}
	return proof, nil
}

// ProofStep is a single sibling on the path from a leaf to the root.
type ProofStep struct {
	Sibling []byte `json:"sibling"`
	// Left is true when the sibling is on the left side of the path.
	Left bool `json:"left"`
}

// Proof is ordered from the leaf to the root.
type Proof []ProofStep

// Hashes returns the sibling hashes only, which is the form EVM verifiers
// consume.
func (p Proof) Hashes() [][]byte {
	out := make([][]byte, len(p))
	for i, s := range p {
		out[i] = s.Sibling
	}
	return out
}

// Validate returns an error if any of the steps is malformed.
func (p Proof) Validate() error {
	for i, s := range p {
		if len(s.Sibling) != HashSize {
			return errors.Wrapf(errors.ErrInput, "proof step %d: sibling must be %d bytes", i, HashSize)
		}
	}
	return nil
}

// Verify returns true if the leaf is included in the tree with given root.
func Verify(root, leaf []byte, proof Proof) bool {
	if IsZeroRoot(root) || len(leaf) != HashSize {
		return false
	}
	if proof.Validate() != nil {
		return false
	}
	node := leaf
	for _, s := range proof {
		node = HashPair(node, s.Sibling)
	}
	return string(node) == string(root)
}

type jsonStep struct {
	Sibling string `json:"sibling"`
	Left    bool   `json:"left"`
}

// MarshalJSON encodes siblings as 0x prefixed hex.
func (s ProofStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonStep{Sibling: hexutil.Encode(s.Sibling), Left: s.Left})
}

// UnmarshalJSON decodes a 0x prefixed hex sibling.
func (s *ProofStep) UnmarshalJSON(raw []byte) error {
	var js jsonStep
	if err := json.Unmarshal(raw, &js); err != nil {
		return errors.Wrapf(errors.ErrInput, "proof step: %s", err)
	}
	sibling, err := DecodeHash(js.Sibling)
	if err != nil {
		return err
	}
	s.Sibling = sibling
	s.Left = js.Left
	return nil
}

// DecodeHash parses an optionally 0x prefixed hex encoded hash.
func DecodeHash(enc string) ([]byte, error) {
	if !strings.HasPrefix(enc, "0x") && !strings.HasPrefix(enc, "0X") {
		enc = "0x" + enc
	}
	b, err := hexutil.Decode(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid hex: %s", err)
	}
	if len(b) != HashSize {
		return nil, errors.Wrapf(errors.ErrInput, "hash must be %d bytes, got %d", HashSize, len(b))
	}
	return b, nil
}
