package events

import (
	"math/big"
	"strconv"
	"strings"

	"stallion/core/types"
)

const (
	TypeBountyCreated     = "bounty_created"
	TypeBountyUpdated     = "bounty_updated"
	TypeBountyDeleted     = "bounty_deleted"
	TypeBountyClosed      = "bounty_closed"
	TypeSubmissionAdded   = "submission_added"
	TypeSubmissionUpdated = "submission_updated"
	TypeWinnersSelected   = "winners_selected"
	TypeAutoDistributed   = "auto_distributed"
)

type BountyCreated struct {
	ID     uint32
	Owner  types.Address
	Token  string
	Reward *big.Int
}

func (BountyCreated) EventType() string { return TypeBountyCreated }

func (e BountyCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeBountyCreated,
		Attributes: map[string]string{
			"id":     idString(e.ID),
			"owner":  e.Owner.Hex(),
			"token":  normalizeAsset(e.Token),
			"reward": formatAmount(e.Reward),
		},
	}
}

// BountyUpdated lists the field names changed by the update.
type BountyUpdated struct {
	ID     uint32
	Fields []string
}

func (BountyUpdated) EventType() string { return TypeBountyUpdated }

func (e BountyUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeBountyUpdated,
		Attributes: map[string]string{
			"id":     idString(e.ID),
			"fields": strings.Join(e.Fields, ","),
		},
	}
}

type BountyDeleted struct {
	ID       uint32
	Owner    types.Address
	Refunded *big.Int
}

func (BountyDeleted) EventType() string { return TypeBountyDeleted }

func (e BountyDeleted) Event() *types.Event {
	return &types.Event{
		Type: TypeBountyDeleted,
		Attributes: map[string]string{
			"id":       idString(e.ID),
			"owner":    e.Owner.Hex(),
			"refunded": formatAmount(e.Refunded),
		},
	}
}

type BountyClosed struct {
	ID       uint32
	Owner    types.Address
	Refunded *big.Int
}

func (BountyClosed) EventType() string { return TypeBountyClosed }

func (e BountyClosed) Event() *types.Event {
	return &types.Event{
		Type: TypeBountyClosed,
		Attributes: map[string]string{
			"id":       idString(e.ID),
			"owner":    e.Owner.Hex(),
			"refunded": formatAmount(e.Refunded),
		},
	}
}

type SubmissionAdded struct {
	ID        uint32
	Applicant types.Address
}

func (SubmissionAdded) EventType() string { return TypeSubmissionAdded }

func (e SubmissionAdded) Event() *types.Event {
	return &types.Event{
		Type: TypeSubmissionAdded,
		Attributes: map[string]string{
			"id":        idString(e.ID),
			"applicant": e.Applicant.Hex(),
		},
	}
}

type SubmissionUpdated struct {
	ID        uint32
	Applicant types.Address
}

func (SubmissionUpdated) EventType() string { return TypeSubmissionUpdated }

func (e SubmissionUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeSubmissionUpdated,
		Attributes: map[string]string{
			"id":        idString(e.ID),
			"applicant": e.Applicant.Hex(),
		},
	}
}

// WinnersSelected is raised by manual settlement. Amounts are base units.
type WinnersSelected struct {
	ID          uint32
	Winners     []types.Address
	Distributed *big.Int
	Remainder   *big.Int
	Fee         *big.Int
}

func (WinnersSelected) EventType() string { return TypeWinnersSelected }

func (e WinnersSelected) Event() *types.Event {
	return &types.Event{
		Type: TypeWinnersSelected,
		Attributes: map[string]string{
			"id":          idString(e.ID),
			"winners":     joinAddresses(e.Winners),
			"distributed": formatAmount(e.Distributed),
			"remainder":   formatAmount(e.Remainder),
			"fee":         formatAmount(e.Fee),
		},
	}
}

// AutoDistributed is raised by deadline-triggered settlement. Dust is the
// floor-division remainder left in the vault.
type AutoDistributed struct {
	ID         uint32
	Applicants int
	Share      *big.Int
	Fee        *big.Int
	Dust       *big.Int
	Refunded   *big.Int
}

func (AutoDistributed) EventType() string { return TypeAutoDistributed }

func (e AutoDistributed) Event() *types.Event {
	return &types.Event{
		Type: TypeAutoDistributed,
		Attributes: map[string]string{
			"id":         idString(e.ID),
			"applicants": strconv.Itoa(e.Applicants),
			"share":      formatAmount(e.Share),
			"fee":        formatAmount(e.Fee),
			"dust":       formatAmount(e.Dust),
			"refunded":   formatAmount(e.Refunded),
		},
	}
}
