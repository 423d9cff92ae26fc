/*
Package governor decides which Merkle root claims are verified against.

A proposed root waits for the dispute period before it becomes active.
Until then the previously activated root stays authoritative. Proposing
again before the period ends replaces the pending root and restarts the
wait, which is how a bad root is disputed.

Promotion happens only when Tick is called. Reading the governing root
never changes the state.
*/
package governor
