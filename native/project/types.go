package project

import (
	"fmt"
	"math/big"

	"stallion/core/types"
)

// Kind distinguishes milestone-escrowed gigs from fee-only jobs.
type Kind uint8

const (
	KindGig Kind = iota
	KindJob
)

func (k Kind) String() string {
	switch k {
	case KindGig:
		return "gig"
	case KindJob:
		return "job"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether the kind is supported.
func (k Kind) Valid() bool { return k == KindGig || k == KindJob }

// Status represents the lifecycle of a project. Completed and Cancelled are
// terminal.
type Status uint8

const (
	StatusActive Status = iota
	StatusCompleted
	StatusCancelled
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// transition is the only place project status changes.
func transition(p *Project, to Status) error {
	if p.Status == StatusActive && (to == StatusCompleted || to == StatusCancelled) {
		p.Status = to
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
}

// Milestone is a single payable slice of a gig. Once Paid is set it never
// reverts.
type Milestone struct {
	Order       uint32
	Amount      *big.Int
	Paid        bool
	PaidAt      int64
	Contributor types.Address
}

// Project is a gig or job. Amounts are kept in display units.
type Project struct {
	ID              uint32
	Owner           types.Address
	Token           string
	Kind            Kind
	TotalReward     *big.Int
	PlatformFee     *big.Int
	RemainingEscrow *big.Int
	Deadline        int64
	Status          Status
	Milestones      []Milestone
	CreatedAt       int64
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	clone := *p
	clone.TotalReward = cloneBigInt(p.TotalReward)
	clone.PlatformFee = cloneBigInt(p.PlatformFee)
	clone.RemainingEscrow = cloneBigInt(p.RemainingEscrow)
	if len(p.Milestones) > 0 {
		clone.Milestones = make([]Milestone, len(p.Milestones))
		for i, m := range p.Milestones {
			m.Amount = cloneBigInt(m.Amount)
			clone.Milestones[i] = m
		}
	}
	return &clone
}

// FindMilestone returns a pointer to the milestone with the supplied order.
func (p *Project) FindMilestone(order uint32) *Milestone {
	if p == nil {
		return nil
	}
	for i := range p.Milestones {
		if p.Milestones[i].Order == order {
			return &p.Milestones[i]
		}
	}
	return nil
}

// AllPaid reports whether every milestone has been released. Projects
// without milestones are never considered paid out.
func (p *Project) AllPaid() bool {
	if p == nil || len(p.Milestones) == 0 {
		return false
	}
	for _, m := range p.Milestones {
		if !m.Paid {
			return false
		}
	}
	return true
}

// PaidTotal sums the amounts of released milestones.
func (p *Project) PaidTotal() *big.Int {
	total := big.NewInt(0)
	if p == nil {
		return total
	}
	for _, m := range p.Milestones {
		if m.Paid && m.Amount != nil {
			total.Add(total, m.Amount)
		}
	}
	return total
}

// MilestoneSpec describes a milestone at gig creation.
type MilestoneSpec struct {
	Order  uint32   `json:"order"`
	Amount *big.Int `json:"amount"`
}

// GigParams describes a new gig.
type GigParams struct {
	Owner       types.Address
	Token       string
	TotalReward *big.Int
	Milestones  []MilestoneSpec
	Deadline    int64
}

// JobParams describes a new job. Only the platform fee is escrowed.
type JobParams struct {
	Owner       types.Address
	Token       string
	TotalReward *big.Int
	Deadline    int64
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
