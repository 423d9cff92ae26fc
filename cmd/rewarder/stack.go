package main

import (
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/app"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/store/iavl"
	"github.com/iov-one/rewarder/x"
	"github.com/iov-one/rewarder/x/cash"
	"github.com/iov-one/rewarder/x/claim"
	"github.com/iov-one/rewarder/x/distribution"
	"github.com/iov-one/rewarder/x/governor"
	"github.com/iov-one/rewarder/x/tree"
	"github.com/iov-one/rewarder/x/whitelist"
)

// appName is used as the database name and in the logs.
const appName = "rewarder"

// modules holds every extension instance used by the application. Handlers
// and direct operator commands share the same instances.
type modules struct {
	cash      cash.BaseController
	whitelist whitelist.Whitelist
	ledger    *distribution.Ledger
	history   tree.History
	generator tree.Generator
	governor  governor.Governor
	claims    claim.Processor
}

func newModules() modules {
	ctrl := cash.NewController()
	list := whitelist.NewWhitelist()
	ledger := distribution.NewLedger(ctrl, list)
	history := tree.NewHistory()
	gov := governor.NewGovernor()
	return modules{
		cash:      ctrl,
		whitelist: list,
		ledger:    ledger,
		history:   history,
		generator: tree.NewGenerator(ledger, history),
		governor:  gov,
		claims:    claim.NewProcessor(gov, ctrl),
	}
}

// authenticator returns the authentication used by all handlers. Signers
// are attached to the context by the command that delivers the message.
func authenticator() x.Authenticator {
	return x.SignerAuth{}
}

// router returns a router dispatching to all extension handlers.
func router(auth x.Authenticator, m modules) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, m.cash)
	whitelist.RegisterRoutes(r, auth)
	distribution.RegisterRoutes(r, auth, m.ledger)
	governor.RegisterRoutes(r, auth, m.governor)
	claim.RegisterRoutes(r, m.claims)
	return r
}

// stack wires up the router with the decorator chain.
func stack(m modules) rewarder.Handler {
	auth := authenticator()
	return app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
	).WithHandler(router(auth, m))
}

func tickers(m modules) rewarder.Ticker {
	return app.ChainTickers(governor.NewTicker(m.governor))
}

func initializers() rewarder.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		whitelist.Initializer{},
		distribution.Initializer{},
		governor.Initializer{},
	)
}

// node is an opened application together with the extensions it runs.
type node struct {
	app  *app.Application
	mods modules
	kv   iavl.CommitStore
}

// openNode loads the application state stored in the home directory. The
// directory is created if missing.
func openNode(home string, logger log.Logger, debug bool) (*node, error) {
	path, err := filepath.Abs(home)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "home %q: %s", home, err)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create home: %s", err)
	}
	kv, err := iavl.NewCommitStore(path, appName)
	if err != nil {
		return nil, err
	}
	mods := newModules()
	a, err := app.NewApplication(appName, kv, stack(mods), tickers(mods), initializers())
	if err != nil {
		kv.Close()
		return nil, err
	}
	a.WithLogger(logger).WithDebug(debug)
	return &node{app: a, mods: mods, kv: kv}, nil
}

// Close releases the database.
func (n *node) Close() {
	n.kv.Close()
}
