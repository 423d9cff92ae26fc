package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/x/claim"
)

func cmdClaim(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Claim rewards using the proof printed by the proof command, read from the
input. Anyone can submit a claim, the rewards are always paid to the
recipient. Only the part that was not paid yet is transferred.
		`)
		fl.PrintDefaults()
	}
	var (
		nf     = addNodeFlags(fl)
		fromFl = flSigner(fl)
	)
	fl.Parse(args)

	var req claimRequest
	if err := readJSON(input, &req); err != nil {
		return err
	}
	msg := &claim.ClaimMsg{
		Recipient: req.Recipient,
		Token:     req.Token,
		Amount:    req.Amount,
		Proof:     req.Proof,
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
	payout, err := coin.ParseAmount(string(res.Data))
	if err != nil {
		return err
	}

	var paid coin.Amount
	err = n.app.View(func(db rewarder.ReadOnlyKVStore) error {
		var err error
		paid, err = n.mods.claims.Paid(db, req.Recipient, req.Token)
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(output, struct {
		Height    int64            `json:"height"`
		Recipient rewarder.Address `json:"recipient"`
		Token     rewarder.Address `json:"token"`
		Payout    coin.Amount      `json:"payout"`
		TotalPaid coin.Amount      `json:"total_paid"`
	}{
		Height:    res.Height,
		Recipient: req.Recipient,
		Token:     req.Token,
		Payout:    payout,
		TotalPaid: paid,
	})
}
