package project

import (
	"errors"

	coreerrors "stallion/core/errors"
)

var (
	errNilState  = errors.New("project engine: state not configured")
	errNilTokens = errors.New("project engine: token service not configured")
	errNilAuth   = errors.New("project engine: authorizer not configured")
)

var (
	// ErrInvalidReward rejects non-positive total rewards.
	ErrInvalidReward = coreerrors.New(coreerrors.ErrValidation, "project: total reward must be positive")
	// ErrInvalidToken rejects empty token identifiers.
	ErrInvalidToken = coreerrors.New(coreerrors.ErrValidation, "project: token required")
	// ErrInvalidDeadline rejects deadlines that are not strictly in the future.
	ErrInvalidDeadline = coreerrors.New(coreerrors.ErrValidation, "project: deadline must be in the future")
	// ErrNoMilestones rejects gigs without milestones.
	ErrNoMilestones = coreerrors.New(coreerrors.ErrValidation, "project: milestones required")
	// ErrInvalidMilestone rejects non-positive amounts and duplicate orders.
	ErrInvalidMilestone = coreerrors.New(coreerrors.ErrValidation, "project: invalid milestone")
	// ErrMilestoneSum rejects gigs whose milestones do not add up to the total reward.
	ErrMilestoneSum = coreerrors.New(coreerrors.ErrValidation, "project: milestone amounts must sum to total reward")
	// ErrInvalidAddress rejects zero owner or contributor addresses.
	ErrInvalidAddress = coreerrors.New(coreerrors.ErrValidation, "project: invalid address")

	// ErrNotActive rejects operations on Completed or Cancelled projects.
	ErrNotActive = coreerrors.New(coreerrors.ErrLifecycle, "project: not active")
	// ErrNotGig rejects milestone operations on jobs.
	ErrNotGig = coreerrors.New(coreerrors.ErrLifecycle, "project: operation requires a gig")
	// ErrInvalidTransition rejects status changes outside the lifecycle.
	ErrInvalidTransition = coreerrors.New(coreerrors.ErrLifecycle, "project: invalid status transition")

	// ErrProjectNotFound is returned for unknown project identifiers.
	ErrProjectNotFound = coreerrors.New(coreerrors.ErrNotFound, "project: not found")
	// ErrMilestoneNotFound is returned when no milestone has the requested order.
	ErrMilestoneNotFound = coreerrors.New(coreerrors.ErrNotFound, "project: milestone not found")

	// ErrMilestoneAlreadyPaid rejects a second release of the same milestone.
	ErrMilestoneAlreadyPaid = coreerrors.New(coreerrors.ErrFundSafety, "project: milestone already paid")
	// ErrAmountMismatch rejects releases whose amount differs from the milestone.
	ErrAmountMismatch = coreerrors.New(coreerrors.ErrFundSafety, "project: amount does not match milestone")
	// ErrInsufficientEscrow rejects releases larger than the remaining escrow.
	ErrInsufficientEscrow = coreerrors.New(coreerrors.ErrFundSafety, "project: insufficient escrow")

	// ErrNotOwner rejects callers other than the project owner.
	ErrNotOwner = coreerrors.New(coreerrors.ErrUnauthorized, "project: caller is not the owner")
)

// ErrFeeAccountUnset is returned when a fee is due but no fee account is configured.
var ErrFeeAccountUnset = coreerrors.New(coreerrors.ErrLifecycle, "project: fee account not configured")
