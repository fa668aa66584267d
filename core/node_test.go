package core

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stallion/config"
	coreerrors "stallion/core/errors"
	"stallion/core/events"
	corestate "stallion/core/state"
	"stallion/core/types"
	"stallion/native/bounty"
	nativecommon "stallion/native/common"
	"stallion/native/fees"
	"stallion/native/project"
	"stallion/storage"
)

var (
	owner      = types.Address{0x01}
	alice      = types.Address{0x0a}
	bob        = types.Address{0x0b}
	carol      = types.Address{0x0c}
	admin      = types.Address{0xad}
	feeAccount = types.Address{0xfe}
	vault      = types.Address{0xee}
)

type recorder struct{ events []events.Event }

func (r *recorder) Emit(evt events.Event) { r.events = append(r.events, evt) }

func (r *recorder) eventTypes() []string {
	out := make([]string, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.EventType())
	}
	return out
}

type testNode struct {
	*Node
	db      *storage.MemDB
	emitted *recorder
	clock   int64
}

func newTestNode(t *testing.T, fee types.Address) *testNode {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	tn := &testNode{db: db, emitted: &recorder{}, clock: 100}
	node, err := NewNode(db, Options{
		Bounty:   bounty.DefaultConfig(),
		Schedule: fees.DefaultSchedule(),
		Vault:    vault,
		Now:      func() int64 { return tn.clock },
		Emitter:  tn.emitted,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	tn.Node = node
	require.NoError(t, node.Bootstrap(context.Background(), BootstrapParams{
		Tokens:      []corestate.TokenMetadata{{Symbol: "USDC", Decimals: 0}},
		Allocations: []Allocation{{Address: owner, Token: "USDC", Amount: big.NewInt(10_000)}},
		Admin:       admin,
		FeeAccount:  fee,
	}))
	tn.emitted.events = nil
	return tn
}

func as(addr types.Address) context.Context {
	return WithCaller(context.Background(), addr)
}

func (tn *testNode) requireBalance(t *testing.T, addr types.Address, want int64) {
	t.Helper()
	bal, err := tn.Balance("USDC", addr)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(want).String(), bal.String(), "balance of %s", addr.Hex())
}

func (tn *testNode) createBounty(t *testing.T) *bounty.Bounty {
	t.Helper()
	b, err := tn.CreateBounty(as(owner), bounty.CreateParams{
		Owner:              owner,
		Token:              "USDC",
		Reward:             big.NewInt(1000),
		Distribution:       []bounty.Share{{Rank: 1, Percent: 60}, {Rank: 2, Percent: 40}},
		SubmissionDeadline: 200,
		JudgingDeadline:    300,
		Title:              "logo",
	})
	require.NoError(t, err)
	return b
}

func TestNodeSettlesBountyByRank(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	b := tn.createBounty(t)
	require.Equal(t, uint32(0), b.ID)
	tn.requireBalance(t, vault, 1000)

	require.NoError(t, tn.ApplyToBounty(as(alice), b.ID, "ipfs://alice"))
	require.NoError(t, tn.ApplyToBounty(as(bob), b.ID, "ipfs://bob"))

	tn.clock = 250
	result, err := tn.SelectWinners(as(owner), b.ID, []types.Address{alice, bob})
	require.NoError(t, err)
	require.Equal(t, "950", result.Distributed.String())

	tn.requireBalance(t, alice, 570)
	tn.requireBalance(t, bob, 380)
	tn.requireBalance(t, feeAccount, 50)
	tn.requireBalance(t, vault, 0)
	tn.requireBalance(t, owner, 9000)

	stored, err := tn.Bounty(b.ID)
	require.NoError(t, err)
	require.Equal(t, bounty.StatusCompleted, stored.Status)
	require.Equal(t, []string{
		events.TypeBountyCreated,
		events.TypeSubmissionAdded,
		events.TypeSubmissionAdded,
		events.TypeWinnersSelected,
	}, tn.emitted.eventTypes())
}

func TestNodeRollsBackFailedSettlement(t *testing.T) {
	tn := newTestNode(t, types.ZeroAddress)
	b := tn.createBounty(t)
	require.NoError(t, tn.ApplyToBounty(as(alice), b.ID, "ipfs://alice"))
	require.NoError(t, tn.ApplyToBounty(as(bob), b.ID, "ipfs://bob"))
	before := len(tn.emitted.events)

	// Winner transfers succeed before the fee account check fails.
	tn.clock = 250
	_, err := tn.SelectWinners(as(owner), b.ID, []types.Address{alice, bob})
	require.ErrorIs(t, err, bounty.ErrFeeAccountUnset)
	require.Equal(t, coreerrors.ErrLifecycle, coreerrors.Kind(err))

	tn.requireBalance(t, alice, 0)
	tn.requireBalance(t, bob, 0)
	tn.requireBalance(t, vault, 1000)
	stored, err := tn.Bounty(b.ID)
	require.NoError(t, err)
	require.Equal(t, bounty.StatusActive, stored.Status)
	require.Len(t, tn.emitted.events, before)
}

func TestNodeDiscardedCreateReissuesID(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	_, err := tn.CreateBounty(as(owner), bounty.CreateParams{
		Owner:              owner,
		Token:              "USDC",
		Reward:             big.NewInt(20_000),
		Distribution:       []bounty.Share{{Rank: 1, Percent: 100}},
		SubmissionDeadline: 200,
		JudgingDeadline:    300,
	})
	require.Error(t, err)

	b := tn.createBounty(t)
	require.Equal(t, uint32(0), b.ID)
}

func TestNodeRejectsOversizedRewards(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	huge := new(big.Int).Lsh(big.NewInt(1), 300)

	_, err := tn.CreateBounty(as(owner), bounty.CreateParams{
		Owner:              owner,
		Token:              "USDC",
		Reward:             huge,
		Distribution:       []bounty.Share{{Rank: 1, Percent: 100}},
		SubmissionDeadline: 200,
		JudgingDeadline:    300,
	})
	require.ErrorIs(t, err, fees.ErrUnitsOverflow)
	require.ErrorIs(t, err, coreerrors.ErrValidation)

	_, err = tn.CreateGig(as(owner), project.GigParams{
		Owner:       owner,
		Token:       "USDC",
		TotalReward: huge,
		Milestones:  []project.MilestoneSpec{{Order: 1, Amount: huge}},
		Deadline:    1000,
	})
	require.ErrorIs(t, err, coreerrors.ErrValidation)
	tn.requireBalance(t, owner, 10_000)

	b := tn.createBounty(t)
	require.Equal(t, uint32(0), b.ID)
}

func TestNodeRequiresCallerAuthorization(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	_, err := tn.CreateBounty(as(alice), bounty.CreateParams{
		Owner:              owner,
		Token:              "USDC",
		Reward:             big.NewInt(10),
		Distribution:       []bounty.Share{{Rank: 1, Percent: 100}},
		SubmissionDeadline: 200,
		JudgingDeadline:    300,
	})
	require.ErrorIs(t, err, coreerrors.ErrUnauthorized)
	tn.requireBalance(t, owner, 10_000)

	b := tn.createBounty(t)
	_, err = tn.CloseBounty(as(alice), b.ID)
	require.ErrorIs(t, err, coreerrors.ErrUnauthorized)
}

func TestNodeAutoSettlesDueBounties(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	b := tn.createBounty(t)
	for _, a := range []types.Address{alice, bob, carol} {
		require.NoError(t, tn.ApplyToBounty(as(a), b.ID, "ref"))
	}

	due, err := tn.DueBounties(300)
	require.NoError(t, err)
	require.Empty(t, due)

	due, err = tn.DueBounties(301)
	require.NoError(t, err)
	require.Equal(t, []uint32{b.ID}, due)

	tn.clock = 301
	result, err := tn.CheckJudgingDeadline(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, result.Settled)
	require.Equal(t, "316", result.Share.String())
	require.Equal(t, "2", result.Dust.String())
	tn.requireBalance(t, vault, 2)
	tn.requireBalance(t, feeAccount, 50)

	again, err := tn.CheckJudgingDeadline(context.Background(), b.ID)
	require.NoError(t, err)
	require.False(t, again.Settled)
}

func TestNodeBountyQueries(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	first := tn.createBounty(t)
	second := tn.createBounty(t)
	require.NoError(t, tn.ApplyToBounty(as(alice), second.ID, "ref"))
	_, err := tn.CloseBounty(as(owner), first.ID)
	require.NoError(t, err)

	all, err := tn.Bounties(BountyFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := tn.Bounties(BountyFilter{Owner: &owner})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	applied, err := tn.Bounties(BountyFilter{Applicant: &alice})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.Equal(t, second.ID, applied[0].ID)

	active := bounty.StatusActive
	open, err := tn.Bounties(BountyFilter{Status: &active})
	require.NoError(t, err)
	require.Len(t, open, 1)

	usdc, err := tn.Bounties(BountyFilter{Token: "usdc"})
	require.NoError(t, err)
	require.Len(t, usdc, 2)
}

func TestNodeGigLifecycle(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	p, err := tn.CreateGig(as(owner), project.GigParams{
		Owner:       owner,
		Token:       "USDC",
		TotalReward: big.NewInt(300),
		Milestones: []project.MilestoneSpec{
			{Order: 1, Amount: big.NewInt(100)},
			{Order: 2, Amount: big.NewInt(200)},
		},
		Deadline: 1000,
	})
	require.NoError(t, err)
	tn.requireBalance(t, vault, 300)
	tn.requireBalance(t, feeAccount, 9)

	_, err = tn.ReleaseMilestone(as(owner), p.ID, 1, alice, big.NewInt(50))
	require.ErrorIs(t, err, project.ErrAmountMismatch)

	updated, err := tn.ReleaseMilestone(as(owner), p.ID, 1, alice, big.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, "200", updated.RemainingEscrow.String())

	refunded, err := tn.CancelGig(as(owner), p.ID)
	require.NoError(t, err)
	require.Equal(t, "200", refunded.String())
	tn.requireBalance(t, owner, 10_000-300-9+200)
	tn.requireBalance(t, vault, 0)

	owned, err := tn.ProjectsByOwner(owner)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, project.StatusCancelled, owned[0].Status)
}

func TestNodeAdminOperations(t *testing.T) {
	tn := newTestNode(t, feeAccount)

	require.NoError(t, tn.UpdatePauses(as(admin), config.Pauses{Bounty: true}))
	_, err := tn.CreateBounty(as(owner), bounty.CreateParams{
		Owner:              owner,
		Token:              "USDC",
		Reward:             big.NewInt(10),
		Distribution:       []bounty.Share{{Rank: 1, Percent: 100}},
		SubmissionDeadline: 200,
		JudgingDeadline:    300,
	})
	require.ErrorIs(t, err, nativecommon.ErrModulePaused)
	require.NoError(t, tn.UpdatePauses(as(admin), config.Pauses{}))

	_, err = tn.UpdateFeeAccount(as(alice), carol)
	require.ErrorIs(t, err, coreerrors.ErrUnauthorized)

	platform, err := tn.UpdateFeeAccount(as(admin), carol)
	require.NoError(t, err)
	require.Equal(t, carol, platform.FeeAccount)

	b := tn.createBounty(t)
	require.NoError(t, tn.ApplyToBounty(as(alice), b.ID, "ref"))
	tn.clock = 250
	_, err = tn.SelectWinners(as(owner), b.ID, []types.Address{alice, bob})
	require.NoError(t, err)
	tn.requireBalance(t, carol, 50)
}

func TestNodeBootstrapCreditsOnce(t *testing.T) {
	tn := newTestNode(t, feeAccount)
	require.NoError(t, tn.Bootstrap(context.Background(), BootstrapParams{
		Tokens:      []corestate.TokenMetadata{{Symbol: "USDC", Decimals: 0}},
		Allocations: []Allocation{{Address: owner, Token: "USDC", Amount: big.NewInt(10_000)}},
		Admin:       alice,
		FeeAccount:  bob,
	}))
	tn.requireBalance(t, owner, 10_000)

	platform, err := tn.Platform()
	require.NoError(t, err)
	require.Equal(t, admin, platform.Admin)
	require.Equal(t, feeAccount, platform.FeeAccount)
}

func TestCallerFromContext(t *testing.T) {
	require.True(t, CallerFrom(context.Background()).IsZero())
	require.Equal(t, alice, CallerFrom(WithCaller(context.Background(), alice)))
}
