/*
Package app contains the building blocks of the rewarder application: a
message router, a decorator chain, genesis loading and an Application that
runs every message as a block over a commit store.
*/
package app
