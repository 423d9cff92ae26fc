package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/store"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		assert.Nil(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}

	cases := map[string]struct {
		path        string
		wantErr     *errors.Error
		wantChainID string
		wantKeys    int
	}{
		"valid genesis": {
			path:        write("valid.json", `{"chain_id": "test-chain", "app_state": {"a": 1, "b": {"c": true}}}`),
			wantChainID: "test-chain",
			wantKeys:    2,
		},
		"malformed json": {
			path:    write("broken.json", `{"chain_id": `),
			wantErr: errors.ErrInput,
		},
		"missing file": {
			path:    filepath.Join(dir, "missing.json"),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.path)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantChainID, gen.ChainID)
			assert.Equal(t, tc.wantKeys, len(gen.AppState))
		})
	}
}

// keyInitializer writes the value found under its key to the store.
type keyInitializer string

func (k keyInitializer) FromGenesis(opts rewarder.Options, db rewarder.KVStore) error {
	var val string
	if err := opts.ReadOptions(string(k), &val); err != nil {
		return err
	}
	if val == "" {
		return errors.Wrapf(errors.ErrEmpty, "no %s", string(k))
	}
	return db.Set([]byte(k), []byte(val))
}

func TestChainInitializers(t *testing.T) {
	opts := rewarder.Options{
		"first":  []byte(`"one"`),
		"second": []byte(`"two"`),
	}

	db := store.MemStore()
	assert.Nil(t, ChainInitializers(keyInitializer("first"), keyInitializer("second")).FromGenesis(opts, db))
	got, err := db.Get([]byte("second"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), got)

	db = store.MemStore()
	err = ChainInitializers(keyInitializer("first"), keyInitializer("third"), keyInitializer("second")).FromGenesis(opts, db)
	assert.IsErr(t, errors.ErrEmpty, err)
	has, err := db.Has([]byte("second"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestChainID(t *testing.T) {
	db := store.MemStore()

	id, err := loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "", id)

	assert.IsErr(t, errors.ErrInput, saveChainID(db, "x"))
	assert.Nil(t, saveChainID(db, "rewarder-test"))
	assert.IsErr(t, errors.ErrState, saveChainID(db, "rewarder-other"))

	id, err = loadChainID(db)
	assert.Nil(t, err)
	assert.Equal(t, "rewarder-test", id)
}
