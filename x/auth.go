package x

import (
	"context"

	"github.com/iov-one/rewarder"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(rewarder.Context) []rewarder.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(rewarder.Context, rewarder.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx rewarder.Context) []rewarder.Condition {
	var res []rewarder.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx rewarder.Context, addr rewarder.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx rewarder.Context, auth Authenticator) []rewarder.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]rewarder.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx rewarder.Context, auth Authenticator) rewarder.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx rewarder.Context, auth Authenticator, required []rewarder.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

type signersKey struct{}

// SignerAuth authenticates conditions that were attached to the context by
// the transport layer after verifying signatures. The command line client
// attaches the condition of the key it operates with.
type SignerAuth struct{}

var _ Authenticator = SignerAuth{}

// WithSigners returns a context that authenticates given conditions.
func WithSigners(ctx rewarder.Context, signers ...rewarder.Condition) rewarder.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// GetConditions returns all conditions attached with WithSigners.
func (SignerAuth) GetConditions(ctx rewarder.Context) []rewarder.Condition {
	conds, _ := ctx.Value(signersKey{}).([]rewarder.Condition)
	return conds
}

// HasAddress returns true if any attached condition has given address.
func (a SignerAuth) HasAddress(ctx rewarder.Context, addr rewarder.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
