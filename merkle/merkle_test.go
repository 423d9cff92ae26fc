package merkle

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/weavetest"
)

func TestKeccak256(t *testing.T) {
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	assert.Equal(t, want, hex.EncodeToString(Keccak256()))
	assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
}

func TestEncodeLeaf(t *testing.T) {
	recipient := weavetest.NewCondition().Address()
	token := weavetest.NewToken()

	raw, err := EncodeLeaf(recipient, token, coin.NewAmount(258))
	require.NoError(t, err)
	require.Len(t, raw, 96)

	assert.Equal(t, make([]byte, 12), raw[:12])
	assert.Equal(t, []byte(recipient), raw[12:32])
	assert.Equal(t, make([]byte, 12), raw[32:44])
	assert.Equal(t, []byte(token), raw[44:64])
	assert.Equal(t, big.NewInt(258).Bytes(), bytes.TrimLeft(raw[64:], "\x00"))

	_, err = EncodeLeaf(recipient[:10], token, coin.NewAmount(1))
	assert.Error(t, err)
	_, err = EncodeLeaf(recipient, token, coin.NewAmount(-1))
	assert.Error(t, err)
}

func TestHashPairIsSorted(t *testing.T) {
	a := Keccak256([]byte("a"))
	b := Keccak256([]byte("b"))
	assert.Equal(t, HashPair(a, b), HashPair(b, a))
}

func TestTreeShapes(t *testing.T) {
	l := randomLeaves(t, 3)

	empty, err := NewTree(nil)
	require.NoError(t, err)
	assert.Equal(t, ZeroRoot, empty.Root())
	assert.True(t, IsZeroRoot(empty.Root()))

	single, err := NewTree(l[:1])
	require.NoError(t, err)
	assert.Equal(t, l[0], single.Root())
	proof, err := single.Proof(0)
	require.NoError(t, err)
	assert.Len(t, proof, 0)
	assert.True(t, Verify(single.Root(), l[0], proof))

	odd, err := NewTree(l)
	require.NoError(t, err)
	assert.Equal(t, HashPair(HashPair(l[0], l[1]), l[2]), odd.Root())

	// The promoted node skips a level, so its proof is shorter.
	proof, err = odd.Proof(2)
	require.NoError(t, err)
	require.Len(t, proof, 1)
	assert.True(t, proof[0].Left)
	assert.Equal(t, HashPair(l[0], l[1]), proof[0].Sibling)

	_, err = odd.Proof(3)
	assert.Error(t, err)

	_, err = NewTree([][]byte{[]byte("short")})
	assert.Error(t, err)
}

func TestEveryLeafVerifies(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8, 13} {
		leaves := randomLeaves(t, n)
		tree, err := NewTree(leaves)
		require.NoError(t, err)
		root := tree.Root()

		for i, leaf := range leaves {
			proof, err := tree.Proof(i)
			require.NoError(t, err)
			assert.True(t, Verify(root, leaf, proof), "leaf %d of %d", i, n)

			other := append([]byte(nil), leaf...)
			other[HashSize-1] ^= 0x01
			assert.False(t, Verify(root, other, proof), "tampered leaf %d of %d", i, n)
		}
	}
}

func TestTamperedAmountDoesNotVerify(t *testing.T) {
	recipient := weavetest.NewCondition().Address()
	token := weavetest.NewToken()

	var leaves [][]byte
	for i := int64(1); i <= 4; i++ {
		h, err := LeafHash(recipient, token, coin.NewAmount(i*100))
		require.NoError(t, err)
		leaves = append(leaves, h)
	}
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	proof, err := tree.Proof(1)
	require.NoError(t, err)

	good, err := LeafHash(recipient, token, coin.NewAmount(200))
	require.NoError(t, err)
	assert.True(t, Verify(tree.Root(), good, proof))

	bad, err := LeafHash(recipient, token, coin.NewAmount(201))
	require.NoError(t, err)
	assert.False(t, Verify(tree.Root(), bad, proof))

	assert.False(t, Verify(ZeroRoot, good, proof))
}

func TestSortedLeavesGiveStableRoot(t *testing.T) {
	leaves := randomLeaves(t, 7)
	sorted := func(in [][]byte) [][]byte {
		out := append([][]byte(nil), in...)
		sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
		return out
	}
	reversed := make([][]byte, len(leaves))
	for i := range leaves {
		reversed[len(leaves)-1-i] = leaves[i]
	}

	a, err := NewTree(sorted(leaves))
	require.NoError(t, err)
	b, err := NewTree(sorted(reversed))
	require.NoError(t, err)
	assert.Equal(t, a.Root(), b.Root())
}

func TestProofJSON(t *testing.T) {
	leaves := randomLeaves(t, 4)
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	proof, err := tree.Proof(3)
	require.NoError(t, err)

	raw, err := json.Marshal(proof)
	require.NoError(t, err)
	var decoded Proof
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, proof, decoded)
	assert.True(t, Verify(tree.Root(), leaves[3], decoded))

	_, err = DecodeHash("0x1234")
	assert.Error(t, err)
}

func randomLeaves(t testing.TB, n int) [][]byte {
	t.Helper()
	token := weavetest.NewToken()
	leaves := make([][]byte, n)
	for i := range leaves {
		var recipient rewarder.Address = weavetest.NewCondition().Address()
		h, err := LeafHash(recipient, token, coin.NewAmount(int64(i+1)))
		require.NoError(t, err)
		leaves[i] = h
	}
	return leaves
}
