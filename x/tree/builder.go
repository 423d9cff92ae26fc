package tree

import (
	"bytes"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/x/distribution"
)

// Build computes the cumulative entitlements released by distributions
// before asOfEpoch and returns a snapshot committing to them. The snapshot
// is not stored.
func Build(shares ShareTable, dists distribution.Sequence, asOfEpoch int64) (*Snapshot, error) {
	return build(nil, shares, dists, 0, asOfEpoch)
}

// build adds the releases of epochs [from, to) on top of prev leaves.
func build(prev []Leaf, shares ShareTable, dists distribution.Sequence, from, to int64) (*Snapshot, error) {
	if len(shares) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyShareTable, "no recipients")
	}
	recipients, total, err := shares.aggregate()
	if err != nil {
		return nil, err
	}

	released, err := releasedByToken(dists, from, to)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(released))
	for t := range released {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	perToken := make([][]Leaf, len(tokens))
	var g errgroup.Group
	for i, token := range tokens {
		i, token := i, token
		g.Go(func() error {
			leaves, err := apportion(rewarder.Address(token), released[token], recipients, total)
			perToken[i] = leaves
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]Leaf, len(prev))
	for _, l := range prev {
		merged[string(l.key())] = l
	}
	for _, leaves := range perToken {
		for _, l := range leaves {
			k := string(l.key())
			if p, ok := merged[k]; ok {
				l.Amount = p.Amount.Add(l.Amount)
			}
			merged[k] = l
		}
	}
	leaves := make([]Leaf, 0, len(merged))
	for _, l := range merged {
		leaves = append(leaves, l)
	}
	return newSnapshot(leaves, to)
}

// releasedByToken sums the amounts released by all distributions during
// epochs [from, to), grouped by reward token.
func releasedByToken(dists distribution.Sequence, from, to int64) (map[string]coin.Amount, error) {
	it, err := dists.Iterator()
	if err != nil {
		return nil, errors.Wrap(err, "distributions")
	}
	defer it.Release()

	released := make(map[string]coin.Amount)
	for {
		d, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return released, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "distributions")
		}
		amount := d.Disbursement(from, to)
		if amount.IsZero() {
			continue
		}
		key := string(d.RewardToken)
		released[key] = released[key].Add(amount)
	}
}

// apportion splits amount between recipients proportionally to their
// weights, rounding down. Recipients receiving nothing get no leaf.
func apportion(token rewarder.Address, amount coin.Amount, recipients []Share, total coin.Amount) ([]Leaf, error) {
	leaves := make([]Leaf, 0, len(recipients))
	for _, r := range recipients {
		part, err := amount.MulDiv(r.Weight, total)
		if err != nil {
			return nil, err
		}
		if part.IsZero() {
			continue
		}
		leaves = append(leaves, Leaf{Recipient: r.Recipient, Token: token, Amount: part})
	}
	return leaves, nil
}

func newSnapshot(leaves []Leaf, epoch int64) (*Snapshot, error) {
	sortLeaves(leaves)
	hashes := make([][]byte, len(leaves))
	for i, l := range leaves {
		h, err := l.Hash()
		if err != nil {
			return nil, errors.Wrapf(err, "leaf %d", i)
		}
		hashes[i] = h
	}
	t, err := merkle.NewTree(hashes)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Root:             t.Root(),
		LeafHashes:       hashes,
		Leaves:           leaves,
		GeneratedAtEpoch: epoch,
	}, nil
}

// Generator builds snapshots from the distribution ledger and appends them
// to the history.
type Generator struct {
	ledger  *distribution.Ledger
	history History
}

// NewGenerator returns a generator reading distributions from the ledger.
func NewGenerator(ledger *distribution.Ledger, history History) Generator {
	return Generator{ledger: ledger, history: history}
}

// Generate builds the next snapshot. Only epochs after the latest stored
// snapshot are apportioned with the given shares, earlier entitlements are
// carried over unchanged. Without history this is the same as Rebuild.
//
// asOfEpoch must not be after the epoch of now, so a snapshot never
// contains rewards that were not released yet. If nothing changed since the
// latest snapshot, the latest snapshot is returned and nothing is stored.
func (g Generator) Generate(db rewarder.KVStore, shares ShareTable, asOfEpoch int64, now rewarder.UnixTime) (*Snapshot, error) {
	if err := checkEpoch(db, asOfEpoch, now); err != nil {
		return nil, err
	}
	latest, err := g.history.Latest(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return g.rebuild(db, shares, asOfEpoch, now)
	case err != nil:
		return nil, err
	}
	if asOfEpoch < latest.GeneratedAtEpoch {
		return nil, errors.Wrapf(errors.ErrInput, "epoch %d is before the latest snapshot epoch %d", asOfEpoch, latest.GeneratedAtEpoch)
	}
	snap, err := build(latest.Leaves, shares, g.ledger.All(db), latest.GeneratedAtEpoch, asOfEpoch)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(snap.Root, latest.Root) {
		return latest, nil
	}
	return g.store(db, snap, now)
}

// Rebuild computes entitlements from the beginning using the given shares
// for every epoch. The same epoch limit as for Generate applies.
//
// If the result equals the latest snapshot, the latest snapshot is returned
// and nothing is stored. ErrDuplicate is returned if it equals an older
// snapshot, because that snapshot cannot become the latest again.
func (g Generator) Rebuild(db rewarder.KVStore, shares ShareTable, asOfEpoch int64, now rewarder.UnixTime) (*Snapshot, error) {
	if err := checkEpoch(db, asOfEpoch, now); err != nil {
		return nil, err
	}
	return g.rebuild(db, shares, asOfEpoch, now)
}

func (g Generator) rebuild(db rewarder.KVStore, shares ShareTable, asOfEpoch int64, now rewarder.UnixTime) (*Snapshot, error) {
	snap, err := Build(shares, g.ledger.All(db), asOfEpoch)
	if err != nil {
		return nil, err
	}
	prev, err := g.history.ByRoot(db, snap.Root)
	switch {
	case errors.ErrNotFound.Is(err):
		return g.store(db, snap, now)
	case err != nil:
		return nil, err
	}
	latest, err := g.history.Latest(db)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(prev.Root, latest.Root) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "tree equals the older snapshot of epoch %d", prev.GeneratedAtEpoch)
	}
	return latest, nil
}

// checkEpoch rejects snapshots of epochs that did not start yet.
func checkEpoch(db rewarder.ReadOnlyKVStore, asOfEpoch int64, now rewarder.UnixTime) error {
	if asOfEpoch < 0 {
		return errors.Wrapf(errors.ErrInput, "negative epoch %d", asOfEpoch)
	}
	clock, err := distribution.LoadClock(db)
	if err != nil {
		return err
	}
	if current := clock.Index(now); asOfEpoch > current {
		return errors.Wrapf(errors.ErrInput, "epoch %d is after the current epoch %d", asOfEpoch, current)
	}
	return nil
}

func (g Generator) store(db rewarder.KVStore, snap *Snapshot, now rewarder.UnixTime) (*Snapshot, error) {
	snap.CreatedAt = now
	if err := g.history.Insert(db, snap); err != nil {
		return nil, errors.Wrap(err, "cannot store snapshot")
	}
	return snap, nil
}
