package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	AppState rewarder.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...rewarder.Initializer) rewarder.Initializer {
	return chainInitializer(inits)
}

type chainInitializer []rewarder.Initializer

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts rewarder.Options, db rewarder.KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}

//------- storing chainID ---------

var chainIDKey = []byte("_app:chain_id")

// loadChainID returns the chain id stored if any
func loadChainID(db rewarder.ReadOnlyKVStore) (string, error) {
	v, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(db rewarder.KVStore, chainID string) error {
	if !rewarder.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	switch has, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "check chain id")
	case has:
		return errors.Wrap(errors.ErrState, "chain id already set")
	}
	return db.Set(chainIDKey, []byte(chainID))
}
