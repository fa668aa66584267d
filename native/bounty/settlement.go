package bounty

import (
	"fmt"
	"math/big"

	"stallion/core/events"
	"stallion/core/types"
	nativecommon "stallion/native/common"
	"stallion/native/fees"
)

// settlementSplit divides the escrowed base amount into the fee deducted at
// settlement and the net reward. Bounties that paid their fee at creation owe
// nothing more.
func settlementSplit(b *Bounty, base *big.Int) fees.Result {
	percent := b.FeePercent
	if b.FeeTiming.Normalize() == fees.TimingCreation {
		percent = 0
	}
	return fees.Split(base, percent)
}

// SelectWinners settles an Active bounty by rank. Winner i is paid the share
// of rank i+1 out of the net reward; ranks without a paid winner return their
// share to the owner together with any rounding remainder. The fee goes to the
// fee account and the bounty becomes Completed.
func (e *Engine) SelectWinners(caller types.Address, id uint32, winners []types.Address) (*Settlement, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.pauses, nativecommon.ModuleBounty); err != nil {
		return nil, err
	}
	b, err := e.loadOwned(caller, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusActive {
		return nil, ErrNotActive
	}
	now := e.now()
	if now < b.SubmissionDeadline {
		return nil, ErrJudgingNotOpen
	}
	if b.HasJudgingDeadline() && now > b.JudgingDeadline {
		return nil, ErrJudgingClosed
	}
	if len(winners) < b.Distribution.Ranks() {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrNotEnoughWinners, len(winners), b.Distribution.Ranks())
	}
	for _, w := range winners {
		if w.IsZero() {
			return nil, fmt.Errorf("%w: winner", ErrInvalidAddress)
		}
	}

	base, err := e.baseReward(b)
	if err != nil {
		return nil, err
	}
	split := settlementSplit(b, base)
	fee, net := split.Fee, split.Net

	effective := len(winners)
	if applicants := len(b.Submissions); applicants < effective {
		effective = applicants
	}
	result := &Settlement{
		Payouts:     make([]*big.Int, 0, effective),
		Distributed: big.NewInt(0),
		Fee:         fee,
	}
	for i := 0; i < effective; i++ {
		amount := big.NewInt(0)
		if pct, ok := b.Distribution.Percent(uint32(i + 1)); ok {
			amount = fees.PercentOf(net, pct)
		}
		if err := e.tokens.Transfer(b.Token, e.vault, winners[i], amount); err != nil {
			return nil, err
		}
		result.Payouts = append(result.Payouts, amount)
		result.Distributed.Add(result.Distributed, amount)
	}
	result.Remainder = new(big.Int).Sub(net, result.Distributed)
	if result.Remainder.Sign() > 0 {
		if err := e.tokens.Transfer(b.Token, e.vault, b.Owner, result.Remainder); err != nil {
			return nil, err
		}
	}
	if err := e.payFee(b.Token, fee); err != nil {
		return nil, err
	}

	b.Winners = append([]types.Address(nil), winners...)
	if err := transition(b, StatusCompleted); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(events.WinnersSelected{
		ID:          b.ID,
		Winners:     b.Winners,
		Distributed: result.Distributed,
		Remainder:   result.Remainder,
		Fee:         fee,
	})
	return result, nil
}

// CheckJudgingDeadline settles an Active bounty whose settlement deadline has
// passed by splitting the net reward equally among all applicants. A bounty
// without applicants refunds the full reward to its owner. Anyone may call
// it; calls on bounties that are not due, or already settled, are no-ops.
// Division dust stays in the vault.
func (e *Engine) CheckJudgingDeadline(id uint32) (*AutoSettlement, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	b, err := e.loadBounty(id)
	if err != nil {
		return nil, err
	}
	now := e.now()
	noop := &AutoSettlement{Share: big.NewInt(0), Fee: big.NewInt(0), Dust: big.NewInt(0), Refunded: big.NewInt(0)}
	if b.Status != StatusActive || now <= b.SettlementDeadline() {
		return noop, nil
	}
	base, err := e.baseReward(b)
	if err != nil {
		return nil, err
	}
	result := &AutoSettlement{
		Settled:    true,
		Applicants: len(b.Submissions),
		Share:      big.NewInt(0),
		Fee:        big.NewInt(0),
		Dust:       big.NewInt(0),
		Refunded:   big.NewInt(0),
	}
	if result.Applicants == 0 {
		if err := e.tokens.Transfer(b.Token, e.vault, b.Owner, base); err != nil {
			return nil, err
		}
		result.Refunded = base
	} else {
		split := settlementSplit(b, base)
		result.Fee = split.Fee
		net := split.Net
		count := big.NewInt(int64(result.Applicants))
		result.Share = new(big.Int).Quo(net, count)
		for _, applicant := range b.Applicants() {
			if err := e.tokens.Transfer(b.Token, e.vault, applicant, result.Share); err != nil {
				return nil, err
			}
		}
		result.Dust = new(big.Int).Sub(net, new(big.Int).Mul(result.Share, count))
		if err := e.payFee(b.Token, result.Fee); err != nil {
			return nil, err
		}
	}
	if err := transition(b, StatusCompleted); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	e.emit(events.AutoDistributed{
		ID:         b.ID,
		Applicants: result.Applicants,
		Share:      result.Share,
		Fee:        result.Fee,
		Dust:       result.Dust,
		Refunded:   result.Refunded,
	})
	return result, nil
}

// Due reports whether CheckJudgingDeadline would settle b at now.
func Due(b *Bounty, now int64) bool {
	return b != nil && b.Status == StatusActive && now > b.SettlementDeadline()
}
