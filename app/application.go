package app

import (
	"context"
	"fmt"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Application contains a data store and all info needed to process
// messages, run the tickers and initialize state from the genesis.
//
// Every delivered message is processed as a block of its own: tickers run
// first, then the message is handled in a cache wrap that is written only on
// success, and the block is committed.
type Application struct {
	logger log.Logger

	// name is used to describe the application in the logs
	name string

	store *CommitStore

	handler     rewarder.Handler
	ticker      rewarder.Ticker
	initializer rewarder.Initializer

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	debug bool
}

// NewApplication loads the latest state from the store and returns an
// application ready to process messages. Ticker and initializer may be nil.
func NewApplication(
	name string,
	kv rewarder.CommitKVStore,
	handler rewarder.Handler,
	ticker rewarder.Ticker,
	init rewarder.Initializer,
) (*Application, error) {
	cs, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Application{
		logger:      log.NewNopLogger(),
		name:        name,
		store:       cs,
		handler:     handler,
		ticker:      ticker,
		initializer: init,
		chainID:     chainID,
	}, nil
}

// WithLogger sets the logger on the Application and returns it,
// to make it easy to chain in initialization
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger.With("app", a.name)
	return a
}

// WithDebug controls if error details are exposed in the results.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// Logger returns the application base logger
func (a *Application) Logger() log.Logger {
	return a.logger
}

// ChainID returns the chain id loaded from the genesis. Empty if the
// application was not yet initialized.
func (a *Application) ChainID() string {
	return a.chainID
}

// LatestVersion returns the height and hash of the last commit.
func (a *Application) LatestVersion() (rewarder.CommitID, error) {
	return a.store.CommitInfo()
}

// InitChain is called only once, the first time the chain starts. It stores
// the chain id and passes the application state to the initializers.
func (a *Application) InitChain(gen Genesis) (rewarder.CommitID, error) {
	if a.chainID != "" {
		return rewarder.CommitID{}, errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", a.chainID)
	}
	if len(gen.AppState) == 0 {
		return rewarder.CommitID{}, errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}

	db := a.store.DeliverStore()
	if err := saveChainID(db, gen.ChainID); err != nil {
		a.store.Rollback()
		return rewarder.CommitID{}, err
	}
	if a.initializer != nil {
		if err := a.initializer.FromGenesis(gen.AppState, db); err != nil {
			a.store.Rollback()
			return rewarder.CommitID{}, errors.Wrap(err, "genesis")
		}
	}
	id, err := a.store.Commit()
	if err != nil {
		return id, err
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", a.chainID, "height", id.Version)
	return id, nil
}

// blockContext extends given context with the chain information for the
// next block. The block time must be provided by the caller.
func (a *Application) blockContext(ctx rewarder.Context) (rewarder.Context, int64, error) {
	if a.chainID == "" {
		return nil, 0, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	if _, err := rewarder.BlockTime(ctx); err != nil {
		return nil, 0, err
	}
	last, err := a.store.CommitInfo()
	if err != nil {
		return nil, 0, errors.Wrap(err, "commit info")
	}
	height := last.Version + 1
	ctx = rewarder.WithHeight(ctx, height)
	ctx = rewarder.WithChainID(ctx, a.chainID)
	ctx = rewarder.WithLogger(ctx, a.logger)
	return ctx, height, nil
}

// beginBlock runs the tickers over the deliver store.
func (a *Application) beginBlock(ctx rewarder.Context) error {
	if a.ticker == nil {
		return nil
	}
	ctx = rewarder.WithLogInfo(ctx, "call", "begin_block")
	if err := a.ticker.Tick(ctx, a.store.DeliverStore()); err != nil {
		return errors.Wrap(err, "tick")
	}
	return nil
}

// CheckTx verifies the message against the last committed state. No
// changes are persisted.
func (a *Application) CheckTx(ctx rewarder.Context, tx rewarder.Tx) Result {
	ctx, height, err := a.blockContext(ctx)
	if err != nil {
		return CheckOrError(nil, err, a.debug)
	}
	db := a.store.CheckStore()
	defer db.Discard()

	ctx = rewarder.WithLogInfo(ctx, "call", "check_tx", "path", msgPath(tx))
	res, err := a.handler.Check(ctx, db, tx)
	result := CheckOrError(res, err, a.debug)
	result.Height = height
	return result
}

// DeliverTx processes the message in a new block. Tickers run first and
// their changes are committed even if the message fails. Changes made by a
// failing message are discarded.
func (a *Application) DeliverTx(ctx rewarder.Context, tx rewarder.Tx) (Result, error) {
	ctx, height, err := a.blockContext(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := a.beginBlock(ctx); err != nil {
		a.store.Rollback()
		return Result{}, err
	}

	cache := a.store.DeliverStore().CacheWrap()
	ctx = rewarder.WithLogInfo(ctx, "call", "deliver_tx", "path", msgPath(tx))
	res, err := a.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
	} else if err := cache.Write(); err != nil {
		a.store.Rollback()
		return Result{}, errors.Wrap(err, "write tx cache")
	}
	result := DeliverOrError(res, err, a.debug)

	if _, err := a.store.Commit(); err != nil {
		return Result{}, err
	}
	result.Height = height
	return result, nil
}

// Tick commits a block that carries no message. Only tickers are run.
func (a *Application) Tick(ctx rewarder.Context) (rewarder.CommitID, error) {
	ctx, _, err := a.blockContext(ctx)
	if err != nil {
		return rewarder.CommitID{}, err
	}
	if err := a.beginBlock(ctx); err != nil {
		a.store.Rollback()
		return rewarder.CommitID{}, err
	}
	return a.store.Commit()
}

// Update runs fn as a privileged operation in a new block. It is meant for
// operator actions that are not expressed as messages, like minting or
// storing a generated tree. Tickers are run before fn. Nothing is committed
// if fn fails.
func (a *Application) Update(ctx rewarder.Context, fn func(rewarder.Context, rewarder.KVStore) error) (rewarder.CommitID, error) {
	ctx, _, err := a.blockContext(ctx)
	if err != nil {
		return rewarder.CommitID{}, err
	}
	if err := a.beginBlock(ctx); err != nil {
		a.store.Rollback()
		return rewarder.CommitID{}, err
	}
	ctx = rewarder.WithLogInfo(ctx, "call", "update")
	if err := fn(ctx, a.store.DeliverStore()); err != nil {
		a.store.Rollback()
		return rewarder.CommitID{}, err
	}
	return a.store.Commit()
}

// View runs fn against the last committed state. All writes are discarded.
func (a *Application) View(fn func(rewarder.ReadOnlyKVStore) error) error {
	db := a.store.CheckStore()
	defer db.Discard()
	return fn(db)
}

// msgPath returns the path of the carried message, for the logs.
func msgPath(tx rewarder.Tx) string {
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Sprintf("invalid: %s", err)
	}
	return msg.Path()
}

// Background returns a context with the given block time, ready to be
// extended with signers.
func Background(now rewarder.UnixTime) rewarder.Context {
	return rewarder.WithBlockTime(context.Background(), now.Time())
}
