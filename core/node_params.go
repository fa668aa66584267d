package core

import (
	"context"
	"fmt"
	"math/big"

	"stallion/config"
	corestate "stallion/core/state"
	"stallion/core/types"
	"stallion/native/bank"
	"stallion/native/params"
)

func (n *Node) UpdateAdmin(ctx context.Context, next types.Address) (params.Platform, error) {
	var out params.Platform
	err := n.execute(ctx, "update_admin", func(u *unit) error {
		var err error
		out, err = u.params.UpdateAdmin(next)
		return err
	})
	return out, err
}

func (n *Node) UpdateFeeAccount(ctx context.Context, next types.Address) (params.Platform, error) {
	var out params.Platform
	err := n.execute(ctx, "update_fee_account", func(u *unit) error {
		var err error
		out, err = u.params.UpdateFeeAccount(next)
		return err
	})
	return out, err
}

func (n *Node) UpdatePauses(ctx context.Context, pauses config.Pauses) error {
	return n.execute(ctx, "update_pauses", func(u *unit) error {
		return u.params.UpdatePauses(pauses)
	})
}

// Platform returns the committed platform record.
func (n *Node) Platform() (params.Platform, error) {
	var out params.Platform
	err := n.view(func(m *corestate.Manager) error {
		var err error
		out, _, err = params.NewStore(m).Platform()
		return err
	})
	return out, err
}

// Pauses returns the committed pause toggles.
func (n *Node) Pauses() (config.Pauses, error) {
	var out config.Pauses
	err := n.view(func(m *corestate.Manager) error {
		var err error
		out, err = params.NewStore(m).Pauses()
		return err
	})
	return out, err
}

// Tokens returns the registered tokens in symbol order.
func (n *Node) Tokens() ([]corestate.TokenMetadata, error) {
	var out []corestate.TokenMetadata
	err := n.view(func(m *corestate.Manager) error {
		symbols, err := m.TokenList()
		if err != nil {
			return err
		}
		out = make([]corestate.TokenMetadata, 0, len(symbols))
		for _, symbol := range symbols {
			meta, err := m.Token(symbol)
			if err != nil {
				return err
			}
			if meta == nil {
				return fmt.Errorf("state: token %s listed without metadata", symbol)
			}
			out = append(out, *meta)
		}
		return nil
	})
	return out, err
}

// Token returns the metadata of a registered token.
func (n *Node) Token(symbol string) (corestate.TokenMetadata, error) {
	var out corestate.TokenMetadata
	err := n.view(func(m *corestate.Manager) error {
		meta, err := m.Token(symbol)
		if err != nil {
			return err
		}
		if meta == nil {
			return fmt.Errorf("%w: %s", bank.ErrUnknownToken, symbol)
		}
		out = *meta
		return nil
	})
	return out, err
}

// Balance returns the committed base-unit balance of addr.
func (n *Node) Balance(token string, addr types.Address) (*big.Int, error) {
	var out *big.Int
	err := n.view(func(m *corestate.Manager) error {
		var err error
		out, err = bank.NewLedger(m).BalanceOf(token, addr)
		return err
	})
	return out, err
}
