package rpc

import (
	"net/http"

	"stallion/core"
	"stallion/native/project"
)

func (s *Server) handleCreateGig(w http.ResponseWriter, r *http.Request) {
	var req createGigRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	total, err := parseAmount(req.TotalReward, "totalReward")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	milestones := make([]project.MilestoneSpec, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		amount, err := parseAmount(m.Amount, "milestones.amount")
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		milestones = append(milestones, project.MilestoneSpec{Order: m.Order, Amount: amount})
	}
	p, err := s.backend.CreateGig(r.Context(), project.GigParams{
		Owner:       core.CallerFrom(r.Context()),
		Token:       req.Token,
		TotalReward: total,
		Milestones:  milestones,
		Deadline:    req.Deadline,
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, formatProject(p))
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	total, err := parseAmount(req.TotalReward, "totalReward")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	p, err := s.backend.CreateJob(r.Context(), project.JobParams{
		Owner:       core.CallerFrom(r.Context()),
		Token:       req.Token,
		TotalReward: total,
		Deadline:    req.Deadline,
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, formatProject(p))
}

func (s *Server) handleReleaseMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	order, err := pathID(r, "order")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	var req releaseRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	contributor, err := parseAddress(req.Contributor, "contributor")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	p, err := s.backend.ReleaseMilestone(r.Context(), id, order, contributor, amount)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formatProject(p))
}

func (s *Server) handleCancelGig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	refunded, err := s.backend.CancelGig(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"refunded": amountString(refunded)})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	p, err := s.backend.Project(id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formatProject(p))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	owner, err := parseAddress(r.URL.Query().Get("owner"), "owner")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	list, err := s.backend.ProjectsByOwner(owner)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	out := make([]projectJSON, 0, len(list))
	for _, p := range list {
		out = append(out, formatProject(p))
	}
	writeJSON(w, http.StatusOK, out)
}
