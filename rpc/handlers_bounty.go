package rpc

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"stallion/core"
	"stallion/core/types"
	"stallion/native/bounty"
)

func (s *Server) handleCreateBounty(w http.ResponseWriter, r *http.Request) {
	var req createBountyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	reward, err := parseAmount(req.Reward, "reward")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	b, err := s.backend.CreateBounty(r.Context(), bounty.CreateParams{
		Owner:              core.CallerFrom(r.Context()),
		Token:              req.Token,
		Reward:             reward,
		Distribution:       req.Distribution,
		SubmissionDeadline: req.SubmissionDeadline,
		JudgingDeadline:    req.JudgingDeadline,
		Title:              req.Title,
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, formatBounty(b))
}

func (s *Server) handleUpdateBounty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	var req updateBountyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	fields, err := s.backend.UpdateBounty(r.Context(), id, bounty.UpdateParams{
		Title:              req.Title,
		Distribution:       req.Distribution,
		SubmissionDeadline: req.SubmissionDeadline,
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if fields == nil {
		fields = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"updated": fields})
}

func (s *Server) handleDeleteBounty(w http.ResponseWriter, r *http.Request) {
	s.refund(w, r, s.backend.DeleteBounty)
}

func (s *Server) handleCloseBounty(w http.ResponseWriter, r *http.Request) {
	s.refund(w, r, s.backend.CloseBounty)
}

func (s *Server) refund(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uint32) (*big.Int, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	refunded, err := op(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"refunded": amountString(refunded)})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	s.submission(w, r, http.StatusCreated, s.backend.ApplyToBounty)
}

func (s *Server) handleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	s.submission(w, r, http.StatusOK, s.backend.UpdateSubmission)
}

func (s *Server) submission(w http.ResponseWriter, r *http.Request, status int, op func(ctx context.Context, id uint32, reference string) error) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	var req submissionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := op(r.Context(), id, req.Reference); err != nil {
		s.writeErr(w, r, err)
		return
	}
	b, err := s.backend.Bounty(id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, status, formatBounty(b))
}

func (s *Server) handleSelectWinners(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	var req winnersRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	winners := make([]types.Address, 0, len(req.Winners))
	for _, raw := range req.Winners {
		addr, err := parseAddress(raw, "winners")
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		winners = append(winners, addr)
	}
	settlement, err := s.backend.SelectWinners(r.Context(), id, winners)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	out := settlementJSON{
		Payouts:     make([]string, 0, len(settlement.Payouts)),
		Distributed: amountString(settlement.Distributed),
		Remainder:   amountString(settlement.Remainder),
		Fee:         amountString(settlement.Fee),
	}
	for _, p := range settlement.Payouts {
		out.Payouts = append(out.Payouts, amountString(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCheckJudgingDeadline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	result, err := s.backend.CheckJudgingDeadline(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, autoSettlementJSON{
		Settled:    result.Settled,
		Applicants: result.Applicants,
		Share:      amountString(result.Share),
		Fee:        amountString(result.Fee),
		Dust:       amountString(result.Dust),
		Refunded:   amountString(result.Refunded),
	})
}

func (s *Server) handleGetBounty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	b, err := s.backend.Bounty(id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formatBounty(b))
}

func (s *Server) handleListBounties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter core.BountyFilter
	if raw := q.Get("owner"); raw != "" {
		addr, err := parseAddress(raw, "owner")
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		filter.Owner = &addr
	}
	if raw := q.Get("applicant"); raw != "" {
		addr, err := parseAddress(raw, "applicant")
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		filter.Applicant = &addr
	}
	if raw := q.Get("status"); raw != "" {
		status, err := bounty.ParseStatus(strings.ToLower(raw))
		if err != nil {
			writeProblem(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = &status
	}
	filter.Token = types.NormalizeToken(q.Get("token"))
	list, err := s.backend.Bounties(filter)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formatBounties(list))
}
