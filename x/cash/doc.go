/*
Package cash implements the token ledger the reward settlement runs on top
of.

Balances are kept per owner and token. Reward deposits are moved into a
single escrow account when a distribution is created and paid out of it
when a claim is settled.
*/
package cash
