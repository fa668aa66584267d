package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"stallion/core/types"
	"stallion/native/bounty"
	"stallion/native/project"
	"stallion/observability/eventlog"
)

type createBountyRequest struct {
	Token              string         `json:"token"`
	Reward             string         `json:"reward"`
	Distribution       []bounty.Share `json:"distribution"`
	SubmissionDeadline int64          `json:"submissionDeadline"`
	JudgingDeadline    int64          `json:"judgingDeadline"`
	Title              string         `json:"title"`
}

type updateBountyRequest struct {
	Title              *string        `json:"title,omitempty"`
	Distribution       []bounty.Share `json:"distribution,omitempty"`
	SubmissionDeadline *int64         `json:"submissionDeadline,omitempty"`
}

type submissionRequest struct {
	Reference string `json:"reference"`
}

type winnersRequest struct {
	Winners []string `json:"winners"`
}

type milestoneRequest struct {
	Order  uint32 `json:"order"`
	Amount string `json:"amount"`
}

type createGigRequest struct {
	Token       string             `json:"token"`
	TotalReward string             `json:"totalReward"`
	Milestones  []milestoneRequest `json:"milestones"`
	Deadline    int64              `json:"deadline"`
}

type createJobRequest struct {
	Token       string `json:"token"`
	TotalReward string `json:"totalReward"`
	Deadline    int64  `json:"deadline"`
}

type releaseRequest struct {
	Contributor string `json:"contributor"`
	Amount      string `json:"amount"`
}

type addressRequest struct {
	Address string `json:"address"`
}

type submissionJSON struct {
	Applicant   string `json:"applicant"`
	Reference   string `json:"reference"`
	SubmittedAt int64  `json:"submittedAt"`
}

type bountyJSON struct {
	ID                 uint32           `json:"id"`
	Owner              string           `json:"owner"`
	Token              string           `json:"token"`
	Reward             string           `json:"reward"`
	Distribution       []bounty.Share   `json:"distribution"`
	SubmissionDeadline int64            `json:"submissionDeadline"`
	JudgingDeadline    int64            `json:"judgingDeadline,omitempty"`
	Title              string           `json:"title"`
	Status             string           `json:"status"`
	Submissions        []submissionJSON `json:"submissions"`
	Applicants         []string         `json:"applicants"`
	Winners            []string         `json:"winners"`
	FeePercent         uint32           `json:"feePercent"`
	FeeTiming          string           `json:"feeTiming"`
	CreatedAt          int64            `json:"createdAt"`
}

type milestoneJSON struct {
	Order       uint32 `json:"order"`
	Amount      string `json:"amount"`
	Paid        bool   `json:"paid"`
	PaidAt      int64  `json:"paidAt,omitempty"`
	Contributor string `json:"contributor,omitempty"`
}

type projectJSON struct {
	ID              uint32          `json:"id"`
	Owner           string          `json:"owner"`
	Token           string          `json:"token"`
	Kind            string          `json:"kind"`
	TotalReward     string          `json:"totalReward"`
	PlatformFee     string          `json:"platformFee"`
	RemainingEscrow string          `json:"remainingEscrow"`
	Deadline        int64           `json:"deadline"`
	Status          string          `json:"status"`
	Milestones      []milestoneJSON `json:"milestones"`
	CreatedAt       int64           `json:"createdAt"`
}

type settlementJSON struct {
	Payouts     []string `json:"payouts"`
	Distributed string   `json:"distributed"`
	Remainder   string   `json:"remainder"`
	Fee         string   `json:"fee"`
}

type autoSettlementJSON struct {
	Settled    bool   `json:"settled"`
	Applicants int    `json:"applicants"`
	Share      string `json:"share"`
	Fee        string `json:"fee"`
	Dust       string `json:"dust"`
	Refunded   string `json:"refunded"`
}

type eventJSON struct {
	ID         string            `json:"id"`
	Sequence   int64             `json:"sequence"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  int64             `json:"createdAt"`
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func addressStrings(addrs []types.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Hex())
	}
	return out
}

func formatBounty(b *bounty.Bounty) bountyJSON {
	out := bountyJSON{
		ID:                 b.ID,
		Owner:              b.Owner.Hex(),
		Token:              b.Token,
		Reward:             amountString(b.Reward),
		SubmissionDeadline: b.SubmissionDeadline,
		JudgingDeadline:    b.JudgingDeadline,
		Title:              b.Title,
		Status:             b.Status.String(),
		Submissions:        make([]submissionJSON, 0, len(b.Submissions)),
		Applicants:         addressStrings(b.Applicants()),
		Winners:            addressStrings(b.Winners),
		FeePercent:         b.FeePercent,
		FeeTiming:          string(b.FeeTiming.Normalize()),
		CreatedAt:          b.CreatedAt,
	}
	if b.Distribution != nil {
		out.Distribution = b.Distribution.Shares()
	}
	for _, sub := range b.Submissions {
		out.Submissions = append(out.Submissions, submissionJSON{
			Applicant:   sub.Applicant.Hex(),
			Reference:   sub.Reference,
			SubmittedAt: sub.SubmittedAt,
		})
	}
	return out
}

func formatBounties(list []*bounty.Bounty) []bountyJSON {
	out := make([]bountyJSON, 0, len(list))
	for _, b := range list {
		out = append(out, formatBounty(b))
	}
	return out
}

func formatProject(p *project.Project) projectJSON {
	out := projectJSON{
		ID:              p.ID,
		Owner:           p.Owner.Hex(),
		Token:           p.Token,
		Kind:            p.Kind.String(),
		TotalReward:     amountString(p.TotalReward),
		PlatformFee:     amountString(p.PlatformFee),
		RemainingEscrow: amountString(p.RemainingEscrow),
		Deadline:        p.Deadline,
		Status:          p.Status.String(),
		Milestones:      make([]milestoneJSON, 0, len(p.Milestones)),
		CreatedAt:       p.CreatedAt,
	}
	for _, m := range p.Milestones {
		entry := milestoneJSON{Order: m.Order, Amount: amountString(m.Amount), Paid: m.Paid, PaidAt: m.PaidAt}
		if !m.Contributor.IsZero() {
			entry.Contributor = m.Contributor.Hex()
		}
		out.Milestones = append(out.Milestones, entry)
	}
	return out
}

func formatRecord(rec eventlog.Record) eventJSON {
	return eventJSON{
		ID:         rec.ID.String(),
		Sequence:   rec.Sequence,
		Type:       rec.Type,
		Attributes: rec.Attrs(),
		CreatedAt:  rec.CreatedAt.Unix(),
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func parseAmount(raw, field string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a decimal integer string", errBadRequest, field)
	}
	return value, nil
}

func parseAddress(raw, field string) (types.Address, error) {
	addr, err := types.ParseAddress(raw)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("%w: %s: %v", errBadRequest, field, err)
	}
	return addr, nil
}

func pathID(r *http.Request, name string) (uint32, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an unsigned 32-bit integer", errBadRequest, name)
	}
	return uint32(value), nil
}

func chiParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
