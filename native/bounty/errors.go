package bounty

import (
	"errors"

	coreerrors "stallion/core/errors"
)

var (
	errNilState  = errors.New("bounty engine: state not configured")
	errNilTokens = errors.New("bounty engine: token service not configured")
	errNilAuth   = errors.New("bounty engine: authorizer not configured")
)

var (
	// ErrDistributionInvalid rejects distribution tables that are empty,
	// repeat a rank, use rank zero or do not sum to exactly 100.
	ErrDistributionInvalid = coreerrors.New(coreerrors.ErrValidation, "bounty: distribution invalid")
	// ErrInvalidReward rejects non-positive rewards.
	ErrInvalidReward = coreerrors.New(coreerrors.ErrValidation, "bounty: reward must be positive")
	// ErrInvalidToken rejects empty token identifiers.
	ErrInvalidToken = coreerrors.New(coreerrors.ErrValidation, "bounty: token required")
	// ErrInvalidDeadline rejects submission deadlines in the past.
	ErrInvalidDeadline = coreerrors.New(coreerrors.ErrValidation, "bounty: submission deadline must be in the future")
	// ErrInvalidJudgingDeadline rejects judging deadlines that do not follow
	// the submission deadline or are missing when required.
	ErrInvalidJudgingDeadline = coreerrors.New(coreerrors.ErrValidation, "bounty: judging deadline must be after submission deadline")
	// ErrInvalidAddress rejects zero owner, applicant or winner addresses.
	ErrInvalidAddress = coreerrors.New(coreerrors.ErrValidation, "bounty: invalid address")
	// ErrEmptyUpdate rejects updates that change nothing.
	ErrEmptyUpdate = coreerrors.New(coreerrors.ErrValidation, "bounty: update has no fields")

	// ErrNotActive rejects operations on Completed or Closed bounties.
	ErrNotActive = coreerrors.New(coreerrors.ErrLifecycle, "bounty: not active")
	// ErrInvalidTransition rejects status changes outside the lifecycle.
	ErrInvalidTransition = coreerrors.New(coreerrors.ErrLifecycle, "bounty: invalid status transition")
	// ErrSubmissionClosed rejects submissions after the submission deadline.
	ErrSubmissionClosed = coreerrors.New(coreerrors.ErrLifecycle, "bounty: submission deadline passed")
	// ErrJudgingNotOpen rejects winner selection before the submission deadline.
	ErrJudgingNotOpen = coreerrors.New(coreerrors.ErrLifecycle, "bounty: submission deadline not reached")
	// ErrJudgingClosed rejects winner selection after the judging deadline.
	ErrJudgingClosed = coreerrors.New(coreerrors.ErrLifecycle, "bounty: judging deadline passed")
	// ErrNotEnoughWinners rejects winner lists shorter than the declared ranks.
	ErrNotEnoughWinners = coreerrors.New(coreerrors.ErrLifecycle, "bounty: not enough winners")
	// ErrHasSubmissions rejects delete and close once work has been submitted.
	ErrHasSubmissions = coreerrors.New(coreerrors.ErrLifecycle, "bounty: bounty has submissions")

	// ErrBountyNotFound is returned for unknown bounty identifiers.
	ErrBountyNotFound = coreerrors.New(coreerrors.ErrNotFound, "bounty: not found")
	// ErrSubmissionNotFound is returned when updating a submission that was
	// never made.
	ErrSubmissionNotFound = coreerrors.New(coreerrors.ErrNotFound, "bounty: submission not found")

	// ErrNotOwner rejects callers other than the bounty owner.
	ErrNotOwner = coreerrors.New(coreerrors.ErrUnauthorized, "bounty: caller is not the owner")
)

var (
	// ErrInvalidSubmission rejects empty submission references.
	ErrInvalidSubmission = coreerrors.New(coreerrors.ErrValidation, "bounty: submission reference required")
	// ErrFeeAccountUnset is returned when a fee is due but no fee account is configured.
	ErrFeeAccountUnset = coreerrors.New(coreerrors.ErrLifecycle, "bounty: fee account not configured")
)
