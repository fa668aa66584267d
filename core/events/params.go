package events

import "stallion/core/types"

const (
	TypeAdminUpdated      = "admin_updated"
	TypeFeeAccountUpdated = "fee_account_updated"
)

type AdminUpdated struct {
	Admin types.Address
}

func (AdminUpdated) EventType() string { return TypeAdminUpdated }

func (e AdminUpdated) Event() *types.Event {
	return &types.Event{
		Type:       TypeAdminUpdated,
		Attributes: map[string]string{"admin": e.Admin.Hex()},
	}
}

type FeeAccountUpdated struct {
	FeeAccount types.Address
}

func (FeeAccountUpdated) EventType() string { return TypeFeeAccountUpdated }

func (e FeeAccountUpdated) Event() *types.Event {
	return &types.Event{
		Type:       TypeFeeAccountUpdated,
		Attributes: map[string]string{"feeAccount": e.FeeAccount.Hex()},
	}
}
