package bounty

import (
	"fmt"
	"sort"
)

// Share assigns a percentage of the net reward to a finishing rank. Rank 1 is
// the top-paid slot.
type Share struct {
	Rank    uint32 `json:"rank"`
	Percent uint32 `json:"percent"`
}

// Distribution is a validated rank to percent table. The zero value is empty
// and never valid for a bounty.
type Distribution struct {
	shares []Share
}

// NewDistribution validates the supplied pairs and returns a table sorted by
// rank. The input must be non-empty, use unique ranks starting at 1 or above,
// and its percents must sum to exactly 100.
func NewDistribution(pairs []Share) (*Distribution, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no ranks", ErrDistributionInvalid)
	}
	seen := make(map[uint32]struct{}, len(pairs))
	var total uint64
	shares := make([]Share, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Rank == 0 {
			return nil, fmt.Errorf("%w: rank must be positive", ErrDistributionInvalid)
		}
		if _, dup := seen[pair.Rank]; dup {
			return nil, fmt.Errorf("%w: duplicate rank %d", ErrDistributionInvalid, pair.Rank)
		}
		seen[pair.Rank] = struct{}{}
		total += uint64(pair.Percent)
		shares = append(shares, pair)
	}
	if total != 100 {
		return nil, fmt.Errorf("%w: percents sum to %d", ErrDistributionInvalid, total)
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].Rank < shares[j].Rank })
	return &Distribution{shares: shares}, nil
}

// Percent returns the share for rank, or false when the table does not
// declare it.
func (d *Distribution) Percent(rank uint32) (uint32, bool) {
	if d == nil {
		return 0, false
	}
	idx := sort.Search(len(d.shares), func(i int) bool { return d.shares[i].Rank >= rank })
	if idx < len(d.shares) && d.shares[idx].Rank == rank {
		return d.shares[idx].Percent, true
	}
	return 0, false
}

// Ranks reports the number of declared ranks.
func (d *Distribution) Ranks() int {
	if d == nil {
		return 0
	}
	return len(d.shares)
}

// Shares returns a copy of the table in ascending rank order.
func (d *Distribution) Shares() []Share {
	if d == nil {
		return nil
	}
	out := make([]Share, len(d.shares))
	copy(out, d.shares)
	return out
}
