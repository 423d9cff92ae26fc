package app

import (
	"reflect"

	"github.com/iov-one/rewarder"
)

// Decorator wraps a Handler to provide common functionality like
// authentication, logging or panic recovery.
type Decorator interface {
	Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx, next rewarder.Handler) (*rewarder.CheckResult, error)
	Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx, next rewarder.Handler) (*rewarder.DeliverResult, error)
}

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  app.NewLogging(),
	  app.NewRecovery(),
	).WithHandler(
	  myapp.NewRouter(),
	)
*/
func ChainDecorators(chain ...Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil will in-place remove all all nil values from given slice.
func cutoffNil(ds []Decorator) []Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h rewarder.Handler) rewarder.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step is one element of the resolved chain
type step struct {
	d    Decorator
	next rewarder.Handler
}

var _ rewarder.Handler = step{}

func (s step) Check(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx rewarder.Context, db rewarder.KVStore, tx rewarder.Tx) (*rewarder.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}

// ChainTickers groups tickers so that they run one after another, stopping
// at the first failure.
func ChainTickers(tickers ...rewarder.Ticker) rewarder.Ticker {
	return tickerChain(tickers)
}

type tickerChain []rewarder.Ticker

func (c tickerChain) Tick(ctx rewarder.Context, db rewarder.KVStore) error {
	for _, t := range c {
		if err := t.Tick(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
