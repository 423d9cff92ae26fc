package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/x/distribution"
	"github.com/iov-one/rewarder/x/tree"
)

// snapshotView is the printed form of a tree snapshot.
type snapshotView struct {
	Root             hexutil.Bytes     `json:"root"`
	GeneratedAtEpoch int64             `json:"generated_at_epoch"`
	CreatedAt        rewarder.UnixTime `json:"created_at"`
	Leaves           []tree.Leaf       `json:"leaves"`
}

func newSnapshotView(s *tree.Snapshot) snapshotView {
	leaves := s.Leaves
	if leaves == nil {
		leaves = []tree.Leaf{}
	}
	return snapshotView{
		Root:             s.Root,
		GeneratedAtEpoch: s.GeneratedAtEpoch,
		CreatedAt:        s.CreatedAt,
		Leaves:           leaves,
	}
}

func cmdBuildTree(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Build the next Merkle tree of cumulative rewards and store it in the tree
history. Rewards released since the latest stored tree, up to the start of
the -epoch, are split between recipients proportionally to their shares.

The shares file is a JSON object mapping recipient addresses to weights,
for example {"A0B1...": 100, "C2D3...": 300}, or a list of
{"recipient": ..., "weight": ...} objects.

The printed root can be passed to propose-root.
		`)
		fl.PrintDefaults()
	}
	var (
		nf        = addNodeFlags(fl)
		sharesFl  = fl.String("shares", "shares.json", "Path to the share table file.")
		epochFl   = fl.Int64("epoch", -1, "Build as of the start of this epoch. Defaults to, and cannot be after, the epoch of -time.")
		rebuildFl = fl.Bool("rebuild", false, "Apportion every epoch from the beginning with the given shares.")
	)
	fl.Parse(args)

	raw, err := ioutil.ReadFile(*sharesFl)
	if err != nil {
		return fmt.Errorf("cannot read shares: %s", err)
	}
	shares, err := tree.ParseShareTable(raw)
	if err != nil {
		return err
	}

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	var snap *tree.Snapshot
	_, err = n.app.Update(blockContext(*nf.now, ""), func(ctx rewarder.Context, db rewarder.KVStore) error {
		asOf := *epochFl
		if asOf < 0 {
			clock, err := distribution.LoadClock(db)
			if err != nil {
				return err
			}
			asOf = clock.Index(*nf.now)
		}
		var err error
		if *rebuildFl {
			snap, err = n.mods.generator.Rebuild(db, shares, asOf, *nf.now)
		} else {
			snap, err = n.mods.generator.Generate(db, shares, asOf, *nf.now)
		}
		if err == nil {
			rewarder.GetLogger(ctx).Info("tree built",
				"root", hexutil.Encode(snap.Root),
				"leaves", len(snap.Leaves),
				"epoch", asOf)
		}
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(output, newSnapshotView(snap))
}

// claimRequest is the printed form of a proof. It is accepted as the input
// of the claim command.
type claimRequest struct {
	Root      hexutil.Bytes    `json:"root"`
	Recipient rewarder.Address `json:"recipient"`
	Token     rewarder.Address `json:"token"`
	Amount    coin.Amount      `json:"amount"`
	Proof     merkle.Proof     `json:"proof"`
}

func cmdProof(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the cumulative amount owed to a recipient together with the Merkle
proof. By default the proof is built for the governing root, falling back to
the latest built tree when no root is active yet.
		`)
		fl.PrintDefaults()
	}
	var (
		nf          = addNodeFlags(fl)
		rootFl      = flHash(fl, "root", "Build the proof against the tree with this root.")
		recipientFl = flAddress(fl, "recipient", "", "Recipient address.")
		tokenFl     = flAddress(fl, "token", "", "Reward token address.")
	)
	fl.Parse(args)

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	var req claimRequest
	err = n.app.View(func(db rewarder.ReadOnlyKVStore) error {
		snap, err := findSnapshot(n, db, *rootFl)
		if err != nil {
			return err
		}
		leaf, proof, err := snap.Proof(*recipientFl, *tokenFl)
		if err != nil {
			return err
		}
		req = claimRequest{
			Root:      snap.Root,
			Recipient: leaf.Recipient,
			Token:     leaf.Token,
			Amount:    leaf.Amount,
			Proof:     proof,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return writeJSON(output, req)
}

// findSnapshot returns the snapshot with given root. Without a root the
// governing one is used, or the latest snapshot if none governs.
func findSnapshot(n *node, db rewarder.ReadOnlyKVStore, root []byte) (*tree.Snapshot, error) {
	if len(root) == 0 {
		governing, err := n.mods.governor.GoverningRoot(db)
		if err != nil {
			return nil, err
		}
		if merkle.IsZeroRoot(governing) {
			return n.mods.history.Latest(db)
		}
		root = governing
	}
	snap, err := n.mods.history.ByRoot(db, root)
	if err != nil {
		return nil, errors.Wrapf(err, "tree %s", hexutil.Encode(root))
	}
	return snap, nil
}
