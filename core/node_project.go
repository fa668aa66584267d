package core

import (
	"context"
	"math/big"

	corestate "stallion/core/state"
	"stallion/core/types"
	"stallion/native/project"
)

// CreateGig escrows a milestone project. Amounts are display units.
func (n *Node) CreateGig(ctx context.Context, p project.GigParams) (*project.Project, error) {
	var created *project.Project
	err := n.execute(ctx, "create_project_gig", func(u *unit) error {
		var err error
		created, err = u.projects.CreateGig(p)
		if err != nil {
			return err
		}
		escrowed := n.baseUnits(u, created.Token, created.TotalReward)
		fee := n.baseUnits(u, created.Token, created.PlatformFee)
		token := created.Token
		u.onCommit(func() {
			n.metrics.AddEscrowed(token, escrowed)
			n.metrics.AddFee(token, fee)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateJob records a job project and collects its platform fee.
func (n *Node) CreateJob(ctx context.Context, p project.JobParams) (*project.Project, error) {
	var created *project.Project
	err := n.execute(ctx, "create_project_job", func(u *unit) error {
		var err error
		created, err = u.projects.CreateJob(p)
		if err != nil {
			return err
		}
		fee := n.baseUnits(u, created.Token, created.PlatformFee)
		token := created.Token
		u.onCommit(func() { n.metrics.AddFee(token, fee) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReleaseMilestone pays one gig milestone to contributor.
func (n *Node) ReleaseMilestone(ctx context.Context, id, order uint32, contributor types.Address, amount *big.Int) (*project.Project, error) {
	var updated *project.Project
	err := n.execute(ctx, "release_milestone_payment", func(u *unit) error {
		var err error
		updated, err = u.projects.ReleaseMilestone(u.caller, id, order, contributor, amount)
		if err != nil {
			return err
		}
		paid := n.baseUnits(u, updated.Token, amount)
		token := updated.Token
		u.onCommit(func() { n.metrics.AddPaidOut(token, paid) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelGig refunds the remaining gig escrow to the owner. The refund is in
// display units.
func (n *Node) CancelGig(ctx context.Context, id uint32) (*big.Int, error) {
	var refunded *big.Int
	err := n.execute(ctx, "cancel_project_gig", func(u *unit) error {
		var err error
		refunded, err = u.projects.CancelGig(u.caller, id)
		if err != nil {
			return err
		}
		p, err := u.projects.Get(id)
		if err != nil {
			return err
		}
		base := n.baseUnits(u, p.Token, refunded)
		u.onCommit(func() { n.metrics.AddRefunded(p.Token, base) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

// Project returns a committed project.
func (n *Node) Project(id uint32) (*project.Project, error) {
	var out *project.Project
	err := n.view(func(m *corestate.Manager) error {
		eng := project.NewEngine()
		eng.SetState(m)
		var err error
		out, err = eng.Get(id)
		return err
	})
	return out, err
}

// ProjectsByOwner lists the owner's projects in id order.
func (n *Node) ProjectsByOwner(owner types.Address) ([]*project.Project, error) {
	var out []*project.Project
	err := n.view(func(m *corestate.Manager) error {
		ids, err := m.ProjectsByOwner(owner)
		if err != nil {
			return err
		}
		out = make([]*project.Project, 0, len(ids))
		for _, id := range ids {
			p, ok, err := m.ProjectGet(id)
			if err != nil {
				return err
			}
			if ok {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}
