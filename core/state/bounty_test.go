package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stallion/core/types"
	"stallion/native/bounty"
	"stallion/native/fees"
	"stallion/native/project"
)

func sampleBounty(t *testing.T, id uint32, owner types.Address) *bounty.Bounty {
	t.Helper()
	dist, err := bounty.NewDistribution([]bounty.Share{{Rank: 2, Percent: 40}, {Rank: 1, Percent: 60}})
	require.NoError(t, err)
	return &bounty.Bounty{
		ID:                 id,
		Owner:              owner,
		Token:              "USDC",
		Reward:             big.NewInt(1000),
		Distribution:       dist,
		SubmissionDeadline: 200,
		JudgingDeadline:    300,
		Title:              "logo",
		Status:             bounty.StatusActive,
		FeePercent:         5,
		FeeTiming:          fees.TimingSettlement,
		CreatedAt:          100,
	}
}

func TestBountyRoundTripAndIndexes(t *testing.T) {
	mgr, _ := newTestManager(t)
	owner := types.Address{0xaa}
	applicant := types.Address{0xbb}

	b := sampleBounty(t, 0, owner)
	b.Submissions = []bounty.Submission{{Applicant: applicant, Reference: "ipfs://x", SubmittedAt: 150}}
	b.Winners = []types.Address{applicant}
	require.NoError(t, mgr.BountyPut(b))
	require.NoError(t, mgr.Commit())

	got, ok, err := mgr.BountyGet(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, owner, got.Owner)
	require.Equal(t, 0, got.Reward.Cmp(big.NewInt(1000)))
	require.Equal(t, []types.Address{applicant}, got.Applicants())
	require.Equal(t, []types.Address{applicant}, got.Winners)
	require.Equal(t, 2, got.Distribution.Ranks())
	pct, ok := got.Distribution.Percent(1)
	require.True(t, ok)
	require.EqualValues(t, 60, pct)
	require.Equal(t, fees.TimingSettlement, got.FeeTiming)
	require.EqualValues(t, 300, got.JudgingDeadline)

	byOwner, err := mgr.BountiesByOwner(owner)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, byOwner)
	byToken, err := mgr.BountiesByToken("usdc")
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, byToken)
	byApplicant, err := mgr.BountiesByApplicant(applicant)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, byApplicant)
}

func TestBountyDeleteClearsIndexes(t *testing.T) {
	mgr, _ := newTestManager(t)
	owner := types.Address{0x01}
	require.NoError(t, mgr.BountyPut(sampleBounty(t, 0, owner)))
	require.NoError(t, mgr.BountyPut(sampleBounty(t, 1, owner)))

	require.NoError(t, mgr.BountyDelete(0))
	_, ok, err := mgr.BountyGet(0)
	require.NoError(t, err)
	require.False(t, ok)

	ids, err := mgr.BountyIDs()
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, ids)
	byOwner, err := mgr.BountiesByOwner(owner)
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, byOwner)

	require.NoError(t, mgr.BountyDelete(42), "deleting a missing bounty is a no-op")
}

func TestBountiesByStatus(t *testing.T) {
	mgr, _ := newTestManager(t)
	owner := types.Address{0x01}
	active := sampleBounty(t, 0, owner)
	closed := sampleBounty(t, 1, owner)
	closed.Status = bounty.StatusClosed
	require.NoError(t, mgr.BountyPut(active))
	require.NoError(t, mgr.BountyPut(closed))

	ids, err := mgr.BountiesByStatus(bounty.StatusActive)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, ids)
	ids, err = mgr.BountiesByStatus(bounty.StatusClosed)
	require.NoError(t, err)
	require.Equal(t, []uint32{1}, ids)
}

func TestProjectRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t)
	owner := types.Address{0x0c}
	contributor := types.Address{0x0d}
	p := &project.Project{
		ID:              3,
		Owner:           owner,
		Token:           "USDC",
		Kind:            project.KindGig,
		TotalReward:     big.NewInt(300),
		PlatformFee:     big.NewInt(9),
		RemainingEscrow: big.NewInt(200),
		Deadline:        1000,
		Status:          project.StatusActive,
		Milestones: []project.Milestone{
			{Order: 1, Amount: big.NewInt(100), Paid: true, PaidAt: 50, Contributor: contributor},
			{Order: 2, Amount: big.NewInt(200)},
		},
	}
	require.NoError(t, mgr.ProjectPut(p))
	require.NoError(t, mgr.Commit())

	got, ok, err := mgr.ProjectGet(3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, project.KindGig, got.Kind)
	require.Equal(t, 0, got.RemainingEscrow.Cmp(big.NewInt(200)))
	require.Len(t, got.Milestones, 2)
	require.True(t, got.Milestones[0].Paid)
	require.Equal(t, contributor, got.Milestones[0].Contributor)
	require.False(t, got.Milestones[1].Paid)

	ids, err := mgr.ProjectsByOwner(owner)
	require.NoError(t, err)
	require.Equal(t, []uint32{3}, ids)

	_, ok, err = mgr.ProjectGet(4)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParamStore(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, ok, err := mgr.ParamStoreGet("escrow.admin")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mgr.ParamStoreSet("escrow.admin", []byte(`{"a":1}`)))
	raw, ok, err := mgr.ParamStoreGet("escrow.admin")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, string(raw))
}
