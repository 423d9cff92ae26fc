/*
Package claim settles Merkle proofs of cumulative entitlements.

Every leaf carries the total amount ever owed for a recipient and token.
Only the difference between that total and what was already paid is
transferred, so replaying a proof pays nothing.
*/
package claim
