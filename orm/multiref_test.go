package orm

import (
	"testing"

	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestMultiRef(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, m.Add([]byte("b")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)
	assert.IsErr(t, errors.ErrDuplicate, m.Add([]byte("a")))

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var loaded MultiRef
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, m.Refs, loaded.Refs)

	assert.Nil(t, loaded.Remove([]byte("b")))
	assert.IsErr(t, errors.ErrNotFound, loaded.Remove([]byte("b")))
	assert.Nil(t, loaded.Validate())

	var empty MultiRef
	assert.IsErr(t, errors.ErrEmpty, empty.Validate())
}
