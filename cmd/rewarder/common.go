package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/app"
	"github.com/iov-one/rewarder/x"
)

// tx carries a single message built from the command line.
type tx struct {
	msg rewarder.Msg
}

var _ rewarder.Tx = (*tx)(nil)

func (t *tx) GetMsg() (rewarder.Msg, error) {
	return t.msg, nil
}

// blockContext returns a context for a block at given time, signed by the
// named account. An empty name means no signature.
func blockContext(now rewarder.UnixTime, from string) rewarder.Context {
	ctx := app.Background(now)
	if from != "" {
		ctx = x.WithSigners(ctx, signer(from))
	}
	return ctx
}

// deliver checks and processes given message in a new block. An error is
// returned if the message was rejected, in which case the result is written
// to the output.
func deliver(n *node, now rewarder.UnixTime, from string, msg rewarder.Msg, output io.Writer) (app.Result, error) {
	ctx := blockContext(now, from)
	t := &tx{msg: msg}
	if res := n.app.CheckTx(ctx, t); !res.IsOK() {
		return res, resultErr(output, res)
	}
	res, err := n.app.DeliverTx(blockContext(now, from), t)
	if err != nil {
		return res, err
	}
	if !res.IsOK() {
		return res, resultErr(output, res)
	}
	return res, nil
}

// resultErr writes the failed result and returns it as an error.
func resultErr(output io.Writer, res app.Result) error {
	if err := writeJSON(output, res); err != nil {
		return err
	}
	return fmt.Errorf("rejected with code %d: %s", res.Code, res.Log)
}

// writeJSON writes an indented JSON representation of v.
func writeJSON(output io.Writer, v interface{}) error {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes a single JSON document from input.
func readJSON(input io.Reader, v interface{}) error {
	if input == nil {
		return fmt.Errorf("no input")
	}
	if err := json.NewDecoder(input).Decode(v); err != nil {
		return fmt.Errorf("cannot decode input: %s", err)
	}
	return nil
}
