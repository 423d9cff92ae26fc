/*
Package x contains the shared pieces of the reward distribution extensions.

Extensions implement a single concern (whitelist, distributions, trees, root
governance, claims) and are combined together by the app package. This
package holds the authentication abstraction that every extension handler
receives in its constructor, so that the host can plug in its own signature
verification.
*/
package x
