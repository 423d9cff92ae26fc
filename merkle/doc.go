/*
Package merkle builds binary Merkle trees over Keccak-256 leaf hashes.

Pairs are hashed in sorted order, so a proof does not depend on the side a
sibling is on. A node without a sibling is promoted to the next level
unchanged. Leaves encode (recipient, token, amount) the same way the
Ethereum ABI encodes (address, address, uint256), which keeps roots and
proofs verifiable by EVM contracts.
*/
package merkle
