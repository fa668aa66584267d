package rpc

import (
	"context"
	"net/http"
	"strconv"

	"stallion/config"
	"stallion/core/types"
	"stallion/native/fees"
	"stallion/native/params"
	"stallion/observability/eventlog"
)

type platformJSON struct {
	Admin      string `json:"admin"`
	FeeAccount string `json:"feeAccount"`
}

func formatPlatform(p params.Platform) platformJSON {
	return platformJSON{Admin: p.Admin.Hex(), FeeAccount: p.FeeAccount.Hex()}
}

func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	s.updatePlatform(w, r, s.backend.UpdateAdmin)
}

func (s *Server) handleUpdateFeeAccount(w http.ResponseWriter, r *http.Request) {
	s.updatePlatform(w, r, s.backend.UpdateFeeAccount)
}

func (s *Server) updatePlatform(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, next types.Address) (params.Platform, error)) {
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	next, err := parseAddress(req.Address, "address")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	platform, err := op(r.Context(), next)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formatPlatform(platform))
}

func (s *Server) handleUpdatePauses(w http.ResponseWriter, r *http.Request) {
	var req config.Pauses
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.backend.UpdatePauses(r.Context(), req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request) {
	platform, err := s.backend.Platform()
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formatPlatform(platform))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chiParam(r, "address"), "address")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	meta, err := s.backend.Token(chiParam(r, "token"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	balance, err := s.backend.Balance(meta.Symbol, addr)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	display, err := fees.FromBaseUnits(balance, meta.Decimals)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":   meta.Symbol,
		"address": addr.Hex(),
		"balance": amountString(balance),
		"display": amountString(display),
	})
}

type tokenJSON struct {
	Symbol   string `json:"symbol"`
	Decimals uint32 `json:"decimals"`
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.backend.Tokens()
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	out := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tokenJSON{Symbol: tok.Symbol, Decimals: tok.Decimals})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeProblem(w, http.StatusNotFound, "event log disabled")
		return
	}
	q := r.URL.Query()
	query := eventlog.Query{Type: q.Get("type")}
	if raw := q.Get("after"); raw != "" {
		after, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "after must be an integer")
			return
		}
		query.After = after
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	records, err := s.events.List(r.Context(), query)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	out := make([]eventJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, formatRecord(rec))
	}
	writeJSON(w, http.StatusOK, out)
}
