package core

import (
	"context"
	"math/big"

	corestate "stallion/core/state"
	"stallion/core/types"
	"stallion/native/bounty"
	"stallion/native/fees"
)

// CreateBounty escrows a new bounty owned by the context caller.
func (n *Node) CreateBounty(ctx context.Context, p bounty.CreateParams) (*bounty.Bounty, error) {
	var created *bounty.Bounty
	err := n.execute(ctx, "create_bounty", func(u *unit) error {
		b, err := u.bounties.Create(p)
		if err != nil {
			return err
		}
		created = b
		escrowed := n.baseUnits(u, b.Token, b.Reward)
		var upfront *big.Int
		if b.FeeTiming == fees.TimingCreation && escrowed != nil {
			upfront = fees.Compute(escrowed, b.FeePercent)
		}
		u.onCommit(func() {
			n.metrics.AddEscrowed(b.Token, escrowed)
			n.metrics.AddFee(b.Token, upfront)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (n *Node) UpdateBounty(ctx context.Context, id uint32, p bounty.UpdateParams) ([]string, error) {
	var fields []string
	err := n.execute(ctx, "update_bounty", func(u *unit) error {
		var err error
		fields, err = u.bounties.Update(u.caller, id, p)
		return err
	})
	return fields, err
}

// DeleteBounty removes an Active bounty without submissions and refunds the
// escrow. It returns the refunded base-unit amount.
func (n *Node) DeleteBounty(ctx context.Context, id uint32) (*big.Int, error) {
	return n.refundBounty(ctx, "delete_bounty", id, func(u *unit) (*big.Int, error) {
		return u.bounties.Delete(u.caller, id)
	})
}

// CloseBounty marks an Active bounty without submissions Closed and refunds
// the escrow.
func (n *Node) CloseBounty(ctx context.Context, id uint32) (*big.Int, error) {
	return n.refundBounty(ctx, "close_bounty", id, func(u *unit) (*big.Int, error) {
		return u.bounties.Close(u.caller, id)
	})
}

func (n *Node) refundBounty(ctx context.Context, op string, id uint32, fn func(u *unit) (*big.Int, error)) (*big.Int, error) {
	var refunded *big.Int
	err := n.execute(ctx, op, func(u *unit) error {
		// Delete removes the record, so the token is read beforehand.
		var token string
		if b, err := u.bounties.Get(id); err == nil {
			token = b.Token
		}
		var err error
		refunded, err = fn(u)
		if err != nil {
			return err
		}
		amount := refunded
		u.onCommit(func() { n.metrics.AddRefunded(token, amount) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

func (n *Node) ApplyToBounty(ctx context.Context, id uint32, reference string) error {
	return n.execute(ctx, "apply_to_bounty", func(u *unit) error {
		return u.bounties.Apply(u.caller, id, reference)
	})
}

func (n *Node) UpdateSubmission(ctx context.Context, id uint32, reference string) error {
	return n.execute(ctx, "update_submission", func(u *unit) error {
		return u.bounties.UpdateSubmission(u.caller, id, reference)
	})
}

// SelectWinners settles a bounty by rank. Amounts in the result are base
// units.
func (n *Node) SelectWinners(ctx context.Context, id uint32, winners []types.Address) (*bounty.Settlement, error) {
	var result *bounty.Settlement
	err := n.execute(ctx, "select_winners", func(u *unit) error {
		var err error
		result, err = u.bounties.SelectWinners(u.caller, id, winners)
		if err != nil {
			return err
		}
		b, err := u.bounties.Get(id)
		if err != nil {
			return err
		}
		s := result
		u.onCommit(func() {
			n.metrics.AddPaidOut(b.Token, s.Distributed)
			n.metrics.AddRefunded(b.Token, s.Remainder)
			n.metrics.AddFee(b.Token, s.Fee)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckJudgingDeadline auto-settles a bounty whose deadline passed. Anyone
// may call it; calls before the deadline or on settled bounties are no-ops.
func (n *Node) CheckJudgingDeadline(ctx context.Context, id uint32) (*bounty.AutoSettlement, error) {
	var result *bounty.AutoSettlement
	err := n.execute(ctx, "check_judging_deadline", func(u *unit) error {
		var err error
		result, err = u.bounties.CheckJudgingDeadline(id)
		if err != nil {
			return err
		}
		r := result
		if !r.Settled {
			return nil
		}
		b, err := u.bounties.Get(id)
		if err != nil {
			return err
		}
		u.onCommit(func() {
			if r.Applicants > 0 && r.Share != nil {
				n.metrics.AddPaidOut(b.Token, new(big.Int).Mul(r.Share, big.NewInt(int64(r.Applicants))))
			}
			n.metrics.AddRefunded(b.Token, r.Refunded)
			n.metrics.AddFee(b.Token, r.Fee)
			n.metrics.AddRoundingDust(b.Token, r.Dust)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Bounty returns a committed bounty.
func (n *Node) Bounty(id uint32) (*bounty.Bounty, error) {
	var out *bounty.Bounty
	err := n.view(func(m *corestate.Manager) error {
		eng := bounty.NewEngine()
		eng.SetState(m)
		var err error
		out, err = eng.Get(id)
		return err
	})
	return out, err
}

// BountyFilter selects a bounty listing. At most one field should be set;
// an empty filter lists every bounty.
type BountyFilter struct {
	Owner     *types.Address
	Token     string
	Applicant *types.Address
	Status    *bounty.Status
}

// Bounties lists committed bounties matching f in id order.
func (n *Node) Bounties(f BountyFilter) ([]*bounty.Bounty, error) {
	var out []*bounty.Bounty
	err := n.view(func(m *corestate.Manager) error {
		var (
			ids []uint32
			err error
		)
		switch {
		case f.Owner != nil:
			ids, err = m.BountiesByOwner(*f.Owner)
		case f.Token != "":
			ids, err = m.BountiesByToken(f.Token)
		case f.Applicant != nil:
			ids, err = m.BountiesByApplicant(*f.Applicant)
		case f.Status != nil:
			ids, err = m.BountiesByStatus(*f.Status)
		default:
			ids, err = m.BountyIDs()
		}
		if err != nil {
			return err
		}
		out, err = loadBounties(m, ids)
		return err
	})
	return out, err
}

// DueBounties lists Active bounties whose settlement deadline passed at now.
func (n *Node) DueBounties(now int64) ([]uint32, error) {
	var due []uint32
	err := n.view(func(m *corestate.Manager) error {
		ids, err := m.BountiesByStatus(bounty.StatusActive)
		if err != nil {
			return err
		}
		list, err := loadBounties(m, ids)
		if err != nil {
			return err
		}
		for _, b := range list {
			if bounty.Due(b, now) {
				due = append(due, b.ID)
			}
		}
		return nil
	})
	return due, err
}

// Now returns the node clock.
func (n *Node) Now() int64 { return n.nowFn() }

func loadBounties(m *corestate.Manager, ids []uint32) ([]*bounty.Bounty, error) {
	out := make([]*bounty.Bounty, 0, len(ids))
	for _, id := range ids {
		b, ok, err := m.BountyGet(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}
