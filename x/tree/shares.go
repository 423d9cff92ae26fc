package tree

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
)

// Share is the weight of a single recipient.
type Share struct {
	Recipient rewarder.Address `json:"recipient"`
	Weight    coin.Amount      `json:"weight"`
}

// ShareTable assigns weights to recipients. Weights of the same recipient
// listed more than once are added.
type ShareTable []Share

// ParseShareTable decodes a share table from JSON. Both a list of
// {"recipient", "weight"} objects and a {"<address>": weight} object are
// accepted.
func ParseShareTable(raw []byte) (ShareTable, error) {
	var list ShareTable
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, list.Validate()
	}
	var byAddr map[string]coin.Amount
	if err := json.Unmarshal(raw, &byAddr); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "share table must be a list or an object")
	}
	for enc, w := range byAddr {
		addr, err := rewarder.ParseAddress(enc)
		if err != nil {
			return nil, errors.Wrapf(err, "recipient %q", enc)
		}
		list = append(list, Share{Recipient: addr, Weight: w})
	}
	sort.Slice(list, func(i, j int) bool {
		return bytes.Compare(list[i].Recipient, list[j].Recipient) < 0
	})
	return list, list.Validate()
}

// Validate returns an error if any entry is malformed. An empty table is
// valid, but cannot be used to build a tree.
func (st ShareTable) Validate() error {
	var errs error
	for i, s := range st {
		if err := s.Recipient.Validate(); err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, "share %d recipient", i))
		}
		if err := s.Weight.Validate(); err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, "share %d weight", i))
		}
	}
	return errs
}

// aggregate returns the weights merged by recipient, ordered by recipient,
// together with the total weight. Zero weights are dropped.
func (st ShareTable) aggregate() ([]Share, coin.Amount, error) {
	if err := st.Validate(); err != nil {
		return nil, coin.Amount{}, err
	}
	byAddr := make(map[string]coin.Amount)
	total := coin.Amount{}
	for _, s := range st {
		if s.Weight.IsZero() {
			continue
		}
		key := string(s.Recipient)
		byAddr[key] = byAddr[key].Add(s.Weight)
		total = total.Add(s.Weight)
	}
	if !total.IsPositive() {
		return nil, coin.Amount{}, errors.Wrap(errors.ErrEmptyShareTable, "total shares are zero")
	}
	merged := make([]Share, 0, len(byAddr))
	for addr, w := range byAddr {
		merged = append(merged, Share{Recipient: rewarder.Address(addr), Weight: w})
	}
	sort.Slice(merged, func(i, j int) bool {
		return bytes.Compare(merged[i].Recipient, merged[j].Recipient) < 0
	})
	return merged, total, nil
}
