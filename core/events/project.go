package events

import (
	"math/big"
	"strconv"

	"stallion/core/types"
)

const (
	TypeProjectGigCreated = "project_gig_created"
	TypeProjectJobCreated = "project_job_created"
	TypeMilestonePaid     = "milestone_paid"
	TypeProjectCancelled  = "project_cancelled"
	TypeProjectCompleted  = "project_completed"
)

type ProjectGigCreated struct {
	ID          uint32
	Owner       types.Address
	Token       string
	TotalReward *big.Int
	Fee         *big.Int
}

func (ProjectGigCreated) EventType() string { return TypeProjectGigCreated }

func (e ProjectGigCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeProjectGigCreated,
		Attributes: map[string]string{
			"id":          idString(e.ID),
			"owner":       e.Owner.Hex(),
			"token":       normalizeAsset(e.Token),
			"totalReward": formatAmount(e.TotalReward),
			"fee":         formatAmount(e.Fee),
		},
	}
}

type ProjectJobCreated struct {
	ID    uint32
	Owner types.Address
	Token string
	Fee   *big.Int
}

func (ProjectJobCreated) EventType() string { return TypeProjectJobCreated }

func (e ProjectJobCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeProjectJobCreated,
		Attributes: map[string]string{
			"id":    idString(e.ID),
			"owner": e.Owner.Hex(),
			"token": normalizeAsset(e.Token),
			"fee":   formatAmount(e.Fee),
		},
	}
}

type MilestonePaid struct {
	ID          uint32
	Order       uint32
	Contributor types.Address
	Amount      *big.Int
}

func (MilestonePaid) EventType() string { return TypeMilestonePaid }

func (e MilestonePaid) Event() *types.Event {
	return &types.Event{
		Type: TypeMilestonePaid,
		Attributes: map[string]string{
			"id":          idString(e.ID),
			"order":       strconv.FormatUint(uint64(e.Order), 10),
			"contributor": e.Contributor.Hex(),
			"amount":      formatAmount(e.Amount),
		},
	}
}

type ProjectCancelled struct {
	ID       uint32
	Refunded *big.Int
}

func (ProjectCancelled) EventType() string { return TypeProjectCancelled }

func (e ProjectCancelled) Event() *types.Event {
	return &types.Event{
		Type: TypeProjectCancelled,
		Attributes: map[string]string{
			"id":       idString(e.ID),
			"refunded": formatAmount(e.Refunded),
		},
	}
}

type ProjectCompleted struct {
	ID uint32
}

func (ProjectCompleted) EventType() string { return TypeProjectCompleted }

func (e ProjectCompleted) Event() *types.Event {
	return &types.Event{
		Type:       TypeProjectCompleted,
		Attributes: map[string]string{"id": idString(e.ID)},
	}
}
