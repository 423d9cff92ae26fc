package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/x/distribution"
)

func cmdCreateDistribution(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Fund a new distribution. The signing account deposits the amount, minus the
protocol fee, that is released evenly over the given number of epochs.
The start must be on an epoch boundary and not in the past.
		`)
		fl.PrintDefaults()
	}
	var (
		nf       = addNodeFlags(fl)
		fromFl   = flSigner(fl)
		poolFl   = flAddress(fl, "pool", "", "Optional pool the rewards are meant for.")
		tokenFl  = flAddress(fl, "token", "", "Reward token address.")
		amountFl = flAmount(fl, "amount", "", "Total deposit.")
		startFl  = flTime(fl, "start", "Distribution start, unix seconds or RFC3339.")
		epochsFl = fl.Int64("epochs", 0, "Number of epochs the distribution lasts.")
	)
	fl.Parse(args)

	if *fromFl == "" {
		flagDie("-from is required")
	}
	msg := &distribution.CreateMsg{
		Creator:     signer(*fromFl).Address(),
		Pool:        *poolFl,
		RewardToken: *tokenFl,
		Amount:      *amountFl,
		Start:       *startFl,
		EpochCount:  *epochsFl,
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
	return writeJSON(output, struct {
		Height int64         `json:"height"`
		ID     hexutil.Bytes `json:"id"`
	}{
		Height: res.Height,
		ID:     res.Data,
	})
}

func cmdDistributions(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
List distributions. By default all distributions are listed in creation
order. Use -creator to list only those funded by an account, or -active to
list only distributions releasing rewards in the current epoch.
		`)
		fl.PrintDefaults()
	}
	var (
		nf        = addNodeFlags(fl)
		creatorFl = flAddress(fl, "creator", "", "List only distributions of this creator.")
		poolFl    = flAddress(fl, "pool", "", "With -active, list only distributions of this pool.")
		activeFl  = fl.Bool("active", false, "List only distributions active at -time.")
	)
	fl.Parse(args)

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	var dists []*distribution.Distribution
	err = n.app.View(func(db rewarder.ReadOnlyKVStore) error {
		ledger := n.mods.ledger
		switch {
		case len(*creatorFl) != 0:
			found, err := ledger.ByCreator(db, *creatorFl)
			dists = found
			return err
		case *activeFl:
			clock, err := distribution.LoadClock(db)
			if err != nil {
				return err
			}
			epoch := clock.Index(*nf.now)
			seq := ledger.ActiveDistributions(db, epoch)
			if len(*poolFl) != 0 {
				seq = ledger.ActiveDistributionsForPool(db, *poolFl, epoch)
			}
			found, err := distribution.Collect(seq)
			dists = found
			return err
		default:
			found, err := distribution.Collect(ledger.All(db))
			dists = found
			return err
		}
	})
	if err != nil {
		return err
	}
	if dists == nil {
		dists = []*distribution.Distribution{}
	}
	return writeJSON(output, dists)
}
