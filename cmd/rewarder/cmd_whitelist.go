package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/x/whitelist"
)

func cmdWhitelist(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Toggle a reward token in or out of the whitelist. Only the whitelist owner
can do it. Use -list to print the whitelisted tokens instead.
		`)
		fl.PrintDefaults()
	}
	var (
		nf      = addNodeFlags(fl)
		fromFl  = flSigner(fl)
		tokenFl = flAddress(fl, "token", "", "Token to toggle.")
		listFl  = fl.Bool("list", false, "Print all whitelisted tokens.")
	)
	fl.Parse(args)

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	if *listFl {
		var tokens []rewarder.Address
		err := n.app.View(func(db rewarder.ReadOnlyKVStore) error {
			var err error
			tokens, err = n.mods.whitelist.List(db)
			return err
		})
		if err != nil {
			return err
		}
		if tokens == nil {
			tokens = []rewarder.Address{}
		}
		return writeJSON(output, tokens)
	}

	msg := &whitelist.ToggleTokenMsg{Token: *tokenFl}
	if err := msg.Validate(); err != nil {
		return err
	}
	res, err := deliver(n, *nf.now, *fromFl, msg, output)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}
