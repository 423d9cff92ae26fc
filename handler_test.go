package rewarder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/rewarder/errors"
)

type pingMsg struct {
	Text string
}

func (pingMsg) Path() string { return "test/ping" }

func (m *pingMsg) Validate() error {
	if m.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type pongMsg struct{}

func (pongMsg) Path() string    { return "test/pong" }
func (pongMsg) Validate() error { return nil }

type txMock struct {
	msg Msg
}

func (tx txMock) GetMsg() (Msg, error) { return tx.msg, nil }

func TestLoadMsg(t *testing.T) {
	var msg pingMsg
	require.NoError(t, LoadMsg(txMock{msg: &pingMsg{Text: "hi"}}, &msg))
	assert.Equal(t, "hi", msg.Text)

	err := LoadMsg(txMock{msg: &pingMsg{}}, &msg)
	assert.True(t, errors.ErrEmpty.Is(err))

	err = LoadMsg(txMock{msg: pongMsg{}}, &msg)
	assert.True(t, errors.ErrType.Is(err))

	err = LoadMsg(txMock{msg: &pingMsg{Text: "hi"}}, msg)
	assert.True(t, errors.ErrType.Is(err))
}

func TestReadOptions(t *testing.T) {
	opts := Options{
		"conf": []byte(`{"a": 1}`),
		"bad":  []byte(`{`),
	}
	var conf struct{ A int }
	require.NoError(t, opts.ReadOptions("conf", &conf))
	assert.Equal(t, 1, conf.A)
	require.NoError(t, opts.ReadOptions("missing", &conf))
	assert.True(t, errors.ErrInput.Is(opts.ReadOptions("bad", &conf)))
}
