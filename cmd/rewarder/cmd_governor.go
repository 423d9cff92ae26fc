package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/x/governor"
)

func cmdProposeRoot(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Propose a new Merkle root. The root becomes claimable once the dispute
period has passed. A pending root that did not activate yet is replaced.
Only the governor owner can propose.

If -root is not given, the root is read from the build-tree output provided
on the input.
		`)
		fl.PrintDefaults()
	}
	var (
		nf     = addNodeFlags(fl)
		fromFl = flSigner(fl)
		rootFl = flHash(fl, "root", "Root to propose, hex encoded.")
	)
	fl.Parse(args)

	root := *rootFl
	if len(root) == 0 {
		var built snapshotView
		if err := readJSON(input, &built); err != nil {
			return err
		}
		root = built.Root
	}
	msg := &governor.ProposeRootMsg{Root: root}
	if err := msg.Validate(); err != nil {
		return err
	}

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	if _, err := deliver(n, *nf.now, *fromFl, msg, output); err != nil {
		return err
	}
	return printRoot(n, *nf.now, output)
}

func cmdTick(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Process an empty block at -time. The pending root is activated if its
dispute period has passed.
		`)
		fl.PrintDefaults()
	}
	nf := addNodeFlags(fl)
	fl.Parse(args)

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	if _, err := n.app.Tick(blockContext(*nf.now, "")); err != nil {
		return err
	}
	return printRoot(n, *nf.now, output)
}

func cmdRoot(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the state of the root governor as seen at -time.
		`)
		fl.PrintDefaults()
	}
	nf := addNodeFlags(fl)
	fl.Parse(args)

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()
	return printRoot(n, *nf.now, output)
}

// rootView is the printed form of the governor state.
type rootView struct {
	Status      string            `json:"status"`
	ActiveRoot  hexutil.Bytes     `json:"active_root,omitempty"`
	PendingRoot hexutil.Bytes     `json:"pending_root,omitempty"`
	ProposedAt  rewarder.UnixTime `json:"proposed_at,omitempty"`
	ActivatesAt rewarder.UnixTime `json:"activates_at,omitempty"`
	Height      int64             `json:"height"`
}

func printRoot(n *node, now rewarder.UnixTime, output io.Writer) error {
	var view rootView
	err := n.app.View(func(db rewarder.ReadOnlyKVStore) error {
		s, err := n.mods.governor.State(db)
		if err != nil {
			return err
		}
		status, err := n.mods.governor.Status(db, now)
		if err != nil {
			return err
		}
		view = rootView{
			Status:      status.String(),
			ActiveRoot:  s.ActiveRoot,
			PendingRoot: s.PendingRoot,
		}
		if s.HasPending() {
			view.ProposedAt = s.ProposedAt
			view.ActivatesAt = s.ActivatesAt()
		}
		return nil
	})
	if err != nil {
		return err
	}
	last, err := n.app.LatestVersion()
	if err != nil {
		return err
	}
	view.Height = last.Version
	return writeJSON(output, view)
}
