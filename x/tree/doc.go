/*
Package tree turns distribution releases into Merkle trees of cumulative
entitlements.

Released amounts are summed per reward token and split between recipients
proportionally to their shares, rounding down. Each (recipient, token) pair
becomes one leaf carrying the total amount ever owed. Generated trees are
stored as an append-only history.
*/
package tree
