package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/x/cash"
)

func cmdMint(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Issue new tokens to an account. This is an operator command that stands in
for the token contract and is not authenticated.
		`)
		fl.PrintDefaults()
	}
	var (
		nf       = addNodeFlags(fl)
		toFl     = flAddress(fl, "to", "", "Address that receives the tokens.")
		tokenFl  = flAddress(fl, "token", "", "Token address.")
		amountFl = flAmount(fl, "amount", "", "Amount to issue.")
	)
	fl.Parse(args)

	c := coin.NewCoin(*tokenFl, *amountFl)
	if err := c.Validate(); err != nil {
		flagDie("invalid coin: %s", err)
	}
	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	id, err := n.app.Update(blockContext(*nf.now, ""), func(ctx rewarder.Context, db rewarder.KVStore) error {
		return n.mods.cash.IssueCoins(db, *toFl, c)
	})
	if err != nil {
		return err
	}
	return writeJSON(output, struct {
		Height int64     `json:"height"`
		Minted coin.Coin `json:"minted"`
	}{
		Height: id.Version,
		Minted: c,
	})
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Transfer tokens from the signing account to another address.
		`)
		fl.PrintDefaults()
	}
	var (
		nf       = addNodeFlags(fl)
		fromFl   = flSigner(fl)
		toFl     = flAddress(fl, "to", "", "Destination address.")
		tokenFl  = flAddress(fl, "token", "", "Token address.")
		amountFl = flAmount(fl, "amount", "", "Amount to transfer.")
		memoFl   = fl.String("memo", "", "Optional text attached to the transfer.")
	)
	fl.Parse(args)

	if *fromFl == "" {
		flagDie("-from is required")
	}
	msg := &cash.SendMsg{
		Source:      signer(*fromFl).Address(),
		Destination: *toFl,
		Amount:      coin.NewCoin(*tokenFl, *amountFl),
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	res, err := deliver(n, *nf.now, *fromFl, msg, output)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print all token balances of an account.
		`)
		fl.PrintDefaults()
	}
	var (
		nf      = addNodeFlags(fl)
		ownerFl = flAddress(fl, "owner", "", "Account address.")
	)
	fl.Parse(args)

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	var coins []coin.Coin
	err = n.app.View(func(db rewarder.ReadOnlyKVStore) error {
		var err error
		coins, err = n.mods.cash.Balances(db, *ownerFl)
		return err
	})
	if err != nil {
		return err
	}
	if coins == nil {
		coins = []coin.Coin{}
	}
	return writeJSON(output, coins)
}
