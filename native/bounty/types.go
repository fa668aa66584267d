package bounty

import (
	"fmt"
	"math/big"

	"stallion/core/types"
	"stallion/native/fees"
)

// Status represents the lifecycle of a bounty. Completed and Closed are
// terminal.
type Status uint8

const (
	StatusActive Status = iota
	StatusCompleted
	StatusClosed
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusClosed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusClosed }

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ParseStatus maps the textual form back to a Status.
func ParseStatus(raw string) (Status, error) {
	for _, s := range []Status{StatusActive, StatusCompleted, StatusClosed} {
		if s.String() == raw {
			return s, nil
		}
	}
	return 0, fmt.Errorf("bounty: unknown status %q", raw)
}

// transition is the only place bounty status changes. Active may move to
// Completed or Closed; every other change is rejected.
func transition(b *Bounty, to Status) error {
	if b.Status == StatusActive && (to == StatusCompleted || to == StatusClosed) {
		b.Status = to
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
}

// Submission is the latest work reference registered by an applicant.
type Submission struct {
	Applicant   types.Address `json:"applicant"`
	Reference   string        `json:"reference"`
	SubmittedAt int64         `json:"submittedAt"`
}

// Bounty is a funded task open to many applicants. Reward is kept in display
// units; fund movements convert it with the token's decimals.
type Bounty struct {
	ID                 uint32
	Owner              types.Address
	Token              string
	Reward             *big.Int
	Distribution       *Distribution
	SubmissionDeadline int64
	// JudgingDeadline is zero when the bounty has no separate judging window.
	JudgingDeadline int64
	Title           string
	Status          Status
	// Submissions are kept in first-application order; the applicant list is
	// derived from them.
	Submissions []Submission
	Winners     []types.Address
	FeePercent  uint32
	FeeTiming   fees.Timing
	CreatedAt   int64
}

// Clone returns a deep copy of the bounty so callers can safely mutate the
// copy without affecting the stored instance.
func (b *Bounty) Clone() *Bounty {
	if b == nil {
		return nil
	}
	clone := *b
	if b.Reward != nil {
		clone.Reward = new(big.Int).Set(b.Reward)
	} else {
		clone.Reward = big.NewInt(0)
	}
	if b.Distribution != nil {
		clone.Distribution = &Distribution{shares: b.Distribution.Shares()}
	}
	clone.Submissions = append([]Submission(nil), b.Submissions...)
	clone.Winners = append([]types.Address(nil), b.Winners...)
	return &clone
}

// Applicants returns the applicant addresses in insertion order.
func (b *Bounty) Applicants() []types.Address {
	if b == nil {
		return nil
	}
	out := make([]types.Address, len(b.Submissions))
	for i, sub := range b.Submissions {
		out[i] = sub.Applicant
	}
	return out
}

// Submission returns the entry registered by applicant.
func (b *Bounty) Submission(applicant types.Address) (*Submission, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Submissions {
		if b.Submissions[i].Applicant == applicant {
			return &b.Submissions[i], true
		}
	}
	return nil, false
}

// HasJudgingDeadline reports whether a separate judging window is configured.
func (b *Bounty) HasJudgingDeadline() bool { return b != nil && b.JudgingDeadline > 0 }

// SettlementDeadline is the moment after which automatic settlement applies.
func (b *Bounty) SettlementDeadline() int64 {
	if b.HasJudgingDeadline() {
		return b.JudgingDeadline
	}
	return b.SubmissionDeadline
}

// CreateParams describes a new bounty.
type CreateParams struct {
	Owner              types.Address
	Token              string
	Reward             *big.Int
	Distribution       []Share
	SubmissionDeadline int64
	JudgingDeadline    int64
	Title              string
}

// UpdateParams patches a bounty. Nil fields are left unchanged.
type UpdateParams struct {
	Title              *string
	Distribution       []Share
	SubmissionDeadline *int64
}

// Settlement reports the base-unit amounts moved by a manual settlement.
type Settlement struct {
	Payouts     []*big.Int
	Distributed *big.Int
	Remainder   *big.Int
	Fee         *big.Int
}

// AutoSettlement reports the outcome of a deadline-triggered settlement.
// Settled is false when the call was a no-op.
type AutoSettlement struct {
	Settled    bool
	Applicants int
	Share      *big.Int
	Fee        *big.Int
	Dust       *big.Int
	Refunded   *big.Int
}
